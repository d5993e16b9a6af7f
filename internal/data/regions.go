package data

// Region is one NEM trading region.
type Region struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// The five NEM regions are fixed; no external registry needed.
var nemRegions = []Region{
	{ID: "NSW1", Name: "New South Wales", State: "NSW"},
	{ID: "QLD1", Name: "Queensland", State: "QLD"},
	{ID: "SA1", Name: "South Australia", State: "SA"},
	{ID: "TAS1", Name: "Tasmania", State: "TAS"},
	{ID: "VIC1", Name: "Victoria", State: "VIC"},
}

// Regions lists the NEM trading regions.
func Regions() []Region {
	out := make([]Region, len(nemRegions))
	copy(out, nemRegions)
	return out
}

// ValidRegion reports whether id names a NEM region.
func ValidRegion(id string) bool {
	for _, r := range nemRegions {
		if r.ID == id {
			return true
		}
	}
	return false
}
