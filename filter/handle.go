package filter

// PacketHandle exposes the address-field data the decoder itself never
// sees (§6: address parsing is an external collaborator's job) but the
// 'd'/'v' digipeater predicates need. Addresses are indexed per the
// AX.25 header: index 0 is the source, 1 the destination, 2.. the
// digipeater path in order.
type PacketHandle interface {
	NumAddresses() int
	Address(i int) string
	HasBeenUsed(i int) bool
	HeardIndex() int
}
