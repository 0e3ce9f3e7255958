package hub

// Partition separates components by synchronization strategy.
type Partition struct {
	// Splits are sourced from a subdirectory and go through subtree split first.
	Splits []Component
	// Singles are merged straight from their remote branch.
	Singles []Component
}

// PartitionComponents splits components by the presence of a source subdirectory, preserving relative order.
func PartitionComponents(components []Component) Partition {
	partition := Partition{}
	for _, component := range components {
		if component.HasSubDir() {
			partition.Splits = append(partition.Splits, component)
			continue
		}
		partition.Singles = append(partition.Singles, component)
	}
	return partition
}
