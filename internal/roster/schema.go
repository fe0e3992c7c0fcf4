package roster

// Subject identifies one graded column in the term workbook. Key is the
// stable identifier used throughout the engine; Label is the exact column
// header as exported by the school information system.
type Subject struct {
	Key   string
	Label string
}

// Canonical subject keys. The workbook headers are Arabic; the engine only
// ever works with these keys.
const (
	SubjArabic      = "arabic"
	SubjFrench      = "french"
	SubjEnglish     = "english"
	SubjSocial      = "social_studies"
	SubjMath        = "math"
	SubjLifeEarth   = "life_earth_sciences"
	SubjPhysChem    = "physics_chemistry"
	SubjIslamic     = "islamic_education"
	SubjPhysicalEd  = "physical_education"
	SubjInformatics = "informatics"
)

// Identity and summary column labels as they appear in the export.
const (
	LabelRank      = "ر.ت"
	LabelStudentID = "رقم التلميذ"
	LabelName      = "اسم التلميذ"
	LabelAverage   = "المعدل"
	LabelClass     = "الفصل"
)

// Schema describes the fixed column layout the analysis runs against.
// Subject group membership and the enrichment list are configuration, not
// something inferred from the data.
type Schema struct {
	Subjects []Subject

	// Orientation groups (keys into Subjects).
	ScienceKeys    []string
	HumanitiesKeys []string

	// Enrichment subjects cross-tabbed against orientation tilt.
	EnrichmentKeys []string

	// Language-gap roles.
	MotherTongueKey string
	ForeignKeys     []string
}

// DefaultSchema returns the subject layout of the Moroccan lower-secondary
// term export this tool was built around.
func DefaultSchema() Schema {
	return Schema{
		Subjects: []Subject{
			{Key: SubjArabic, Label: "اللغة العربية"},
			{Key: SubjFrench, Label: "اللغة الفرنسية"},
			{Key: SubjEnglish, Label: "اللغة الإنجليزية"},
			{Key: SubjSocial, Label: "الاجتماعيات"},
			{Key: SubjMath, Label: "الرياضيات"},
			{Key: SubjLifeEarth, Label: "علوم الحياة والأرض"},
			{Key: SubjPhysChem, Label: "الفيزياء والكيمياء"},
			{Key: SubjIslamic, Label: "التربية الإسلامية"},
			{Key: SubjPhysicalEd, Label: "التربية البدنية"},
			{Key: SubjInformatics, Label: "المعلوميات"},
		},
		ScienceKeys:     []string{SubjMath, SubjLifeEarth, SubjPhysChem},
		HumanitiesKeys:  []string{SubjArabic, SubjFrench, SubjEnglish, SubjSocial},
		EnrichmentKeys:  []string{SubjIslamic, SubjPhysicalEd, SubjInformatics},
		MotherTongueKey: SubjArabic,
		ForeignKeys:     []string{SubjFrench, SubjEnglish},
	}
}

// Keys returns the subject keys in schema order. This order is the stable
// tie-break for every ranking the engine produces.
func (s Schema) Keys() []string {
	out := make([]string, len(s.Subjects))
	for i, subj := range s.Subjects {
		out[i] = subj.Key
	}
	return out
}

// LabelFor maps a subject key back to its workbook header. Unknown keys
// return the key itself so report output stays debuggable.
func (s Schema) LabelFor(key string) string {
	for _, subj := range s.Subjects {
		if subj.Key == key {
			return subj.Label
		}
	}
	return key
}

// KeyForLabel resolves a workbook header to a subject key.
func (s Schema) KeyForLabel(label string) (string, bool) {
	for _, subj := range s.Subjects {
		if subj.Label == label {
			return subj.Key, true
		}
	}
	return "", false
}
