package fees

import (
	"strings"

	"mkt-settlement-api/internal/constant"
)

// Classifier maps raw gateway card metadata onto a fee bucket key.
type Classifier struct {
	localCountry string
	gcc          map[string]struct{}
}

func NewClassifier(localCountry string, gccCountries []string) *Classifier {
	gcc := make(map[string]struct{}, len(gccCountries))
	for _, c := range gccCountries {
		gcc[strings.ToUpper(c)] = struct{}{}
	}
	return &Classifier{localCountry: strings.ToUpper(localCountry), gcc: gcc}
}

// Classify derives the card class from scheme and issuing country.
//
// Amex always maps to the amex bucket regardless of country. Mada is a
// local-only scheme. For the generic card schemes the issuer country decides:
// local jurisdiction -> local_<scheme>, another GCC country ->
// regional_<scheme>, anything else -> international_<scheme>. BNPL and COD
// payment methods have their own buckets. When the metadata is missing the
// default bucket is returned; a gap in the webhook must never fail the order.
func (cl *Classifier) Classify(payMethod, scheme, issuerCountry string) string {
	switch payMethod {
	case constant.PayMethodBNPL:
		return constant.CardBNPL
	case constant.PayMethodCOD:
		return constant.CardCOD
	}

	scheme = strings.ToLower(strings.TrimSpace(scheme))
	country := strings.ToUpper(strings.TrimSpace(issuerCountry))

	switch scheme {
	case "amex", "american_express":
		return constant.CardAmex
	case "mada":
		return constant.CardMada
	case "":
		return constant.CardDefault
	}

	if country == "" {
		return constant.CardDefault
	}
	if country == cl.localCountry {
		return "local_" + scheme
	}
	if _, ok := cl.gcc[country]; ok {
		return "regional_" + scheme
	}
	return "international_" + scheme
}
