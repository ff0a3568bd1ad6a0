package domain

// Surface identifies an upload surface
type Surface string

const (
	SurfaceStatements Surface = "statements"
	SurfaceReceipts   Surface = "receipts"
)

// SurfaceInfo describes an upload surface
type SurfaceInfo struct {
	Name   Surface
	Title  string
	Hint   string
	Accept string
	// Path is the backend endpoint receiving the files
	Path string
	// MockPrefix prefixes locally synthesized upload ids
	MockPrefix string
}

// Surfaces lists every known upload surface in display order
var Surfaces = []SurfaceInfo{
	{
		Name:       SurfaceStatements,
		Title:      "Bank Statements",
		Hint:       "Upload CSV/PDF statements to parse transactions.",
		Accept:     ".csv,.pdf",
		Path:       "/api/uploads/bank-statement",
		MockPrefix: "upl_",
	},
	{
		Name:       SurfaceReceipts,
		Title:      "Receipts",
		Hint:       "Upload images/PDF receipts for matching and classification.",
		Accept:     "image/*,.pdf",
		Path:       "/api/uploads/receipt",
		MockPrefix: "rcpt_",
	},
}

// LookupSurface returns the description of a surface
func LookupSurface(name Surface) (SurfaceInfo, error) {
	for _, s := range Surfaces {
		if s.Name == name {
			return s, nil
		}
	}
	return SurfaceInfo{}, ErrUnknownSurface
}
