package pipeline

import "strings"

// industryRule maps customer-name keywords to an industry guess. The list is
// ordered by descending confidence; the highest-confidence matching rule
// wins. Confidence weights come from measured classification accuracy on the
// historical roster, so a government office named "DINAS ..." outranks a
// weak consultant match on the same name.
type industryRule struct {
	industry   string
	confidence float64
	keywords   []string
}

var industryRules = []industryRule{
	{"SELULAR OPERATOR PROVIDER", 0.98, []string{
		"TELKOMSEL", "INDOSAT", "XL ", "SMARTFREN", "HUTCHISON", "THREE", "AXIS", "TRI "}},
	{"GOVERNMENT", 0.95, []string{
		"DINAS", "KEMENTERIAN", "KANTOR", "BADAN", "KEPOLISIAN", "POLRES", "POLSEK",
		"KEJAKSAAN", "PENGADILAN", "MAHKAMAH"}},
	{"BANKING & FINANCIAL", 0.95, []string{
		"BANK", "KOPERASI", "BPR", "PEGADAIAN", "ASURANSI", "LEMBAGA KEUANGAN"}},
	{"TRANSPORTATION", 0.92, []string{
		"KERETA API", "KAI ", "MASKAPAI", "AIRLINES", "PELNI", "ANGKUTAN", "TERMINAL", "BANDAR UDARA"}},
	{"EDUCATION", 0.90, []string{
		"UNIVERSITAS", "UNIV ", "INSTITUT", "POLITEKNIK"}},
	{"EDUCATION", 0.88, []string{
		"SMK", "SMA", "SMP", "SD ", "SEKOLAH", "YAYASAN"}},
	{"ENERGY UTILITY MINING", 0.88, []string{
		"PLN", "LISTRIK", "TAMBANG", "MINING", "ENERGI", "BATU BARA", "GEOTHERMAL"}},
	{"NATURAL RESOURCES", 0.82, []string{
		"PUPUK", "PERKEBUNAN", "PERTAMINA", "KELAPA SAWIT", "PERTANIAN", "KEHUTANAN"}},
	{"HOSPITALITY", 0.82, []string{
		"HOTEL", "RESTORAN", "RESTAURANT", "CAFE", "PENGINAPAN", "VILLA", "RESORT"}},
	{"HEALTH CARE", 0.80, []string{
		"RS ", "RS.", "RUMAH SAKIT", "HOSPITAL", "KLINIK", "PUSKESMAS", "APOTEK"}},
	{"MEDIA & ENTERTAINMENT", 0.80, []string{
		"TELEVISI", "RADIO", "MEDIA", "BROADCASTING", "PRODUCTION HOUSE", "ENTERTAINMENT"}},
	{"PROPERTY", 0.78, []string{
		"PROPERTY", "PROPERTI", "REAL ESTATE", "APARTEMEN", "PERUMAHAN", "DEVELOPER"}},
	{"CONSULTANT, CONTRACT", 0.70, []string{
		"CONSULTANT", "KONSULTAN", "KONTRAKTOR", "KONSTRUKSI", "ENGINEERING", "ARSITEK"}},
}

// industryOverrideConfidence is the floor above which a name-based guess
// overrides a conflicting stated segment.
const industryOverrideConfidence = 0.70

// InferIndustry guesses an industry from a customer name. Returns the empty
// string when no rule matches. A keyword at the start of the name earns a
// small confidence boost, capped below certainty.
func InferIndustry(name string) (string, float64) {
	// Pad so keywords with a trailing space ("RS ", "XL ") also match at
	// the end of the name.
	upper := strings.ToUpper(strings.TrimSpace(name)) + " "

	var best string
	var bestConf float64
	for _, rule := range industryRules {
		for _, kw := range rule.keywords {
			if !strings.Contains(upper, kw) {
				continue
			}
			conf := rule.confidence
			if strings.HasPrefix(upper, kw) {
				conf = min(0.99, conf+0.05)
			}
			if conf > bestConf {
				best = rule.industry
				bestConf = conf
			}
		}
	}
	return best, bestConf
}

// ResolveIndustry arbitrates between the name-based guess and the segment
// field stated in the snapshot. The stated field wins unless a
// sufficiently confident guess contradicts it; an empty stated field takes
// any guess at all.
func ResolveIndustry(name, stated string) string {
	stated = strings.ToUpper(strings.TrimSpace(stated))
	guess, conf := InferIndustry(name)

	switch {
	case guess == "":
		return stated
	case stated == "":
		return guess
	case conf >= industryOverrideConfidence && !industryCompatible(guess, stated):
		return guess
	default:
		return stated
	}
}

// industryCompatible treats the stated segment as agreeing with the guess
// when they name the same sector, even if the labels differ in detail
// ("EDUCATION_UNIV" vs "EDUCATION").
func industryCompatible(guess, stated string) bool {
	if guess == stated {
		return true
	}
	for _, family := range []string{"EDUCATION", "BANKING", "GOVERNMENT"} {
		if strings.Contains(guess, family) && strings.Contains(stated, family) {
			return true
		}
	}
	return false
}
