package primitive

import (
	"sheet-mapper/options"
	"sheet-mapper/sheet"
)

// ConversionPair is a cell kind read into a property kind.
type ConversionPair struct {
	From sheet.Kind
	To   KindEnum
}

var (
	identityPairs   map[ConversionPair]struct{}
	conversionPairs map[options.CategoryEnum]map[ConversionPair]struct{}
)

func init() {
	identityPairs = map[ConversionPair]struct{}{
		{sheet.KindString, KindString}:  {},
		{sheet.KindNumber, KindFloat64}: {},
		{sheet.KindBool, KindBool}:      {},
		{sheet.KindDate, KindTime}:      {},
	}

	for from := sheet.KindString; from <= sheet.KindDate; from++ {
		identityPairs[ConversionPair{from, KindAny}] = struct{}{}
	}

	conversionPairs = make(map[options.CategoryEnum]map[ConversionPair]struct{})

	// CategorySafeNumber and CategoryUnsafeNumber: number cell into any number
	conversionPairs[options.CategorySafeNumber] = map[ConversionPair]struct{}{}
	conversionPairs[options.CategoryUnsafeNumber] = map[ConversionPair]struct{}{}
	conversionPairs[options.CategoryTextNumber] = map[ConversionPair]struct{}{
		{sheet.KindNumber, KindString}: {},
	}
	conversionPairs[options.CategoryNumericBool] = map[ConversionPair]struct{}{
		{sheet.KindNumber, KindBool}: {},
	}

	for kind := KindEnum(0); int(kind) < KindTotal; kind++ {
		if !kind.IsNumber() {
			continue
		}

		conversionPairs[options.CategorySafeNumber][ConversionPair{sheet.KindNumber, kind}] = struct{}{}
		conversionPairs[options.CategoryTextNumber][ConversionPair{sheet.KindString, kind}] = struct{}{}

		if kind.IsInteger() {
			conversionPairs[options.CategoryUnsafeNumber][ConversionPair{sheet.KindNumber, kind}] = struct{}{}
			conversionPairs[options.CategoryNumericBool][ConversionPair{sheet.KindBool, kind}] = struct{}{}
		}
	}

	// yes, no, on, off, true, false
	conversionPairs[options.CategoryTextualBool] = map[ConversionPair]struct{}{
		{sheet.KindString, KindBool}: {},
		{sheet.KindBool, KindString}: {},
	}

	conversionPairs[options.CategoryDatetime] = map[ConversionPair]struct{}{
		{sheet.KindString, KindTime}: {},
		{sheet.KindDate, KindString}: {},
	}

	conversionPairs[options.CategorySerialDate] = map[ConversionPair]struct{}{
		{sheet.KindNumber, KindTime}: {},
	}

	conversionPairs[options.CategoryDuration] = map[ConversionPair]struct{}{
		{sheet.KindString, KindDuration}: {},
	}

	conversionPairs[options.CategoryDayFraction] = map[ConversionPair]struct{}{
		{sheet.KindNumber, KindDuration}: {},
		{sheet.KindDate, KindDuration}:   {},
	}

	conversionPairs[options.CategoryEnumString] = map[ConversionPair]struct{}{
		{sheet.KindString, KindPrimitiveEnum}: {},
		{sheet.KindNumber, KindPrimitiveEnum}: {},
	}
}

// Categories returns every category that permits pair, or CategoryNone.
// Identity pairs report CategoryAll.
func Categories(pair ConversionPair) options.CategoryEnum {
	if _, ok := identityPairs[pair]; ok {
		return options.CategoryAll
	}

	var res options.CategoryEnum

	for category, pairs := range conversionPairs {
		if _, ok := pairs[pair]; ok {
			res |= category
		}
	}

	return res
}

// Allowed reports whether pair is an identity or is permitted by any category
// selected in allowed.
func Allowed(pair ConversionPair, allowed options.CategoryEnum) bool {
	if _, ok := identityPairs[pair]; ok {
		return true
	}

	for category, pairs := range conversionPairs {
		if allowed&category == 0 {
			continue
		}

		if _, ok := pairs[pair]; ok {
			return true
		}
	}

	return false
}
