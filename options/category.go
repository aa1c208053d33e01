package options

// CategoryEnum selects the lenient conversions the default converter may
// perform when a cell does not hold the property's natural kind. Identity
// conversions (text into string, number into float64, boolean into bool,
// date into time.Time) are always allowed.
type CategoryEnum int

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // number cell -> any numeric property, value fits exactly
	CategoryUnsafeNumber                          // number cell -> integer property with truncation of the fraction
	CategoryTextNumber                            // text cell <-> numeric property: "42", "3.5"
	CategoryNumericBool                           // number cell -> bool: 0, 1 representation of boolean values
	CategoryTextualBool                           // text cell <-> bool: yes, no, on, off, true, false representation of boolean values
	CategoryDatetime                              // text cell <-> time.Time: parsed with the column format or common layouts
	CategorySerialDate                            // number cell -> time.Time: Excel serial date
	CategoryDuration                              // text cell -> time.Duration: textual duration representation (2h45m)
	CategoryDayFraction                           // number cell -> time.Duration: fraction of a day, as Excel stores times
	CategoryEnumString                            // text or number cell -> enum: validated with IsValid() when available

	CategoryAll  = (1 << iota) - 1 // all categories combined
	CategoryNone = 0               // no categories selected
)

// Has reports whether every category of c is selected in e.
func (e CategoryEnum) Has(c CategoryEnum) bool {
	return e&c == c
}
