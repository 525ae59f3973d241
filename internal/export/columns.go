package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/wonny/proptier/internal/contracts"
)

// Columns of the classified table, in output order
var Columns = []string{
	"transaction_id",
	"price",
	"date_of_transfer",
	"postcode",
	"postcode_key",
	"property_type",
	"old_new",
	"tenure",
	"area_code",
	"area_matched",
	"deprivation_rank",
	"deprivation_decile",
	"deprivation_matched",
	"decile_imputed",
	"location_score",
	"property_type_score",
	"valuation_score",
	"volatility_score",
	"composite_score",
	"tier",
	"tier_rank",
}

const dateLayout = "2006-01-02"

// row renders a record as strings in Columns order
func row(rec *contracts.EnrichedRecord) []string {
	rank := ""
	if rec.DeprivationRank > 0 {
		rank = strconv.Itoa(rec.DeprivationRank)
	}
	return []string{
		rec.TransactionID,
		strconv.FormatFloat(rec.Price, 'f', -1, 64),
		formatDate(rec.Date),
		rec.Postcode,
		rec.PostcodeKey,
		string(rec.PropertyType),
		rec.OldNew,
		string(rec.Tenure),
		rec.AreaCode,
		strconv.FormatBool(rec.AreaMatched),
		rank,
		strconv.Itoa(rec.DeprivationDecile),
		strconv.FormatBool(rec.DeprivationMatched),
		strconv.FormatBool(rec.DecileImputed),
		strconv.Itoa(rec.Scores.Location),
		strconv.Itoa(rec.Scores.PropertyType),
		strconv.Itoa(rec.Scores.Valuation),
		strconv.Itoa(rec.Scores.Volatility),
		strconv.Itoa(rec.CompositeScore),
		rec.Tier.String(),
		strconv.Itoa(rec.Tier.Rank()),
	}
}

// values renders a record for typed sinks (xlsx, sql)
func values(rec *contracts.EnrichedRecord) []interface{} {
	var rank interface{}
	if rec.DeprivationRank > 0 {
		rank = rec.DeprivationRank
	}
	var area interface{}
	if rec.AreaMatched {
		area = rec.AreaCode
	}
	return []interface{}{
		rec.TransactionID,
		rec.Price,
		formatDate(rec.Date),
		rec.Postcode,
		rec.PostcodeKey,
		string(rec.PropertyType),
		rec.OldNew,
		string(rec.Tenure),
		area,
		rec.AreaMatched,
		rank,
		rec.DeprivationDecile,
		rec.DeprivationMatched,
		rec.DecileImputed,
		rec.Scores.Location,
		rec.Scores.PropertyType,
		rec.Scores.Valuation,
		rec.Scores.Volatility,
		rec.CompositeScore,
		rec.Tier.String(),
		rec.Tier.Rank(),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// parseRow is the inverse of row; tier_rank is derived and ignored
func parseRow(fields []string, col map[string]int) (contracts.EnrichedRecord, error) {
	get := func(name string) string {
		if i, ok := col[name]; ok && i < len(fields) {
			return fields[i]
		}
		return ""
	}
	var err error
	intField := func(name string) int {
		s := get(name)
		if s == "" || err != nil {
			return 0
		}
		v, perr := strconv.Atoi(s)
		if perr != nil {
			err = fmt.Errorf("column %s: %w", name, perr)
		}
		return v
	}
	boolField := func(name string) bool {
		s := get(name)
		if s == "" || err != nil {
			return false
		}
		v, perr := strconv.ParseBool(s)
		if perr != nil {
			err = fmt.Errorf("column %s: %w", name, perr)
		}
		return v
	}

	var rec contracts.EnrichedRecord
	rec.TransactionID = get("transaction_id")
	if s := get("price"); s != "" {
		p, perr := strconv.ParseFloat(s, 64)
		if perr != nil {
			return rec, fmt.Errorf("column price: %w", perr)
		}
		rec.Price = p
	}
	if s := get("date_of_transfer"); s != "" {
		d, perr := time.Parse(dateLayout, s)
		if perr != nil {
			return rec, fmt.Errorf("column date_of_transfer: %w", perr)
		}
		rec.Date = d
	}
	rec.Postcode = get("postcode")
	rec.PostcodeKey = get("postcode_key")
	rec.PropertyType = contracts.PropertyType(get("property_type"))
	rec.OldNew = get("old_new")
	rec.Tenure = contracts.Tenure(get("tenure"))
	rec.AreaCode = get("area_code")
	rec.AreaMatched = boolField("area_matched")
	rec.DeprivationRank = intField("deprivation_rank")
	rec.DeprivationDecile = intField("deprivation_decile")
	rec.DeprivationMatched = boolField("deprivation_matched")
	rec.DecileImputed = boolField("decile_imputed")
	rec.Scores = contracts.ScoreDetail{
		Location:     intField("location_score"),
		PropertyType: intField("property_type_score"),
		Valuation:    intField("valuation_score"),
		Volatility:   intField("volatility_score"),
	}
	rec.CompositeScore = intField("composite_score")
	if err != nil {
		return rec, err
	}

	tier, terr := contracts.ParseTier(get("tier"))
	if terr != nil {
		return rec, terr
	}
	rec.Tier = tier
	return rec, nil
}
