package contracts

// AreaLink maps one postcode to its LSOA area code
// Many postcodes share an area code.
type AreaLink struct {
	Postcode string `json:"postcode"`
	AreaCode string `json:"area_code"`
}

// DeprivationRecord holds the IMD rank and decile for an area code
type DeprivationRecord struct {
	AreaCode string `json:"area_code"`
	Rank     int    `json:"rank"`   // 1 = most deprived
	Decile   int    `json:"decile"` // 1 = most deprived, 10 = least
}

// Deciles bounds and the neutral value substituted for unmatched areas
const (
	MinDecile     = 1
	MaxDecile     = 10
	NeutralDecile = 5
)

// ValidDecile reports whether d is a published IMD decile
func ValidDecile(d int) bool {
	return d >= MinDecile && d <= MaxDecile
}
