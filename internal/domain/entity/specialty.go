package entity

// Specialty is the medical specialty of a doctor
type Specialty string

const (
	SpecialtyFamilyMedicine   Specialty = "family_medicine"
	SpecialtyNursing          Specialty = "nursing"
	SpecialtyPhysiotherapy    Specialty = "physiotherapy"
	SpecialtyGynecology       Specialty = "gynecology"
	SpecialtyPediatrics       Specialty = "pediatrics"
	SpecialtyDermatology      Specialty = "dermatology"
	SpecialtyCardiology       Specialty = "cardiology"
	SpecialtyNeurology        Specialty = "neurology"
	SpecialtyOrthopedics      Specialty = "orthopedics"
	SpecialtyPsychiatry       Specialty = "psychiatry"
	SpecialtyEndocrinology    Specialty = "endocrinology"
	SpecialtyOncology         Specialty = "oncology"
	SpecialtyRadiology        Specialty = "radiology"
	SpecialtySurgery          Specialty = "surgery"
	SpecialtyOphthalmology    Specialty = "ophthalmology"
	SpecialtyUrology          Specialty = "urology"
	SpecialtyAnesthesiology   Specialty = "anesthesiology"
	SpecialtyOtolaryngology   Specialty = "otolaryngology"
	SpecialtyGastroenterology Specialty = "gastroenterology"
	SpecialtyOther            Specialty = "other"
)

// Specialties lists every accepted specialty in declaration order
var Specialties = []Specialty{
	SpecialtyFamilyMedicine,
	SpecialtyNursing,
	SpecialtyPhysiotherapy,
	SpecialtyGynecology,
	SpecialtyPediatrics,
	SpecialtyDermatology,
	SpecialtyCardiology,
	SpecialtyNeurology,
	SpecialtyOrthopedics,
	SpecialtyPsychiatry,
	SpecialtyEndocrinology,
	SpecialtyOncology,
	SpecialtyRadiology,
	SpecialtySurgery,
	SpecialtyOphthalmology,
	SpecialtyUrology,
	SpecialtyAnesthesiology,
	SpecialtyOtolaryngology,
	SpecialtyGastroenterology,
	SpecialtyOther,
}

func (s Specialty) IsValid() bool {
	for _, specialty := range Specialties {
		if s == specialty {
			return true
		}
	}
	return false
}

func (s Specialty) String() string {
	return string(s)
}
