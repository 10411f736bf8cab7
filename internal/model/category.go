package model

// Category is a coarse diagnostic grouping of an ICD-9 code.
type Category string

const (
	Circulatory     Category = "Circulatory"
	Respiratory     Category = "Respiratory"
	Digestive       Category = "Digestive"
	Diabetes        Category = "Diabetes"
	Injury          Category = "Injury"
	Musculoskeletal Category = "Musculoskeletal"
	Genitourinary   Category = "Genitourinary"
	Neoplasms       Category = "Neoplasms"
	Other           Category = "Other"
)

// AllCategories lists the categories in rule-priority order, Other last.
var AllCategories = []Category{
	Circulatory, Respiratory, Digestive, Diabetes, Injury,
	Musculoskeletal, Genitourinary, Neoplasms, Other,
}

// CategoryByName returns the Category with the given label, or ok=false.
func CategoryByName(name string) (Category, bool) {
	for _, c := range AllCategories {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}
