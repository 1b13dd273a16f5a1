package eligibility

// ServiceCategory buckets X12 service-type codes into the copay/coinsurance
// categories the intake flow cares about.
type ServiceCategory int

const (
	CategoryNone ServiceCategory = iota
	CategoryOfficeVisit // primary care vs specialist resolved by message hint
	CategoryUrgentCare
	CategoryEmergency
	CategoryInpatientMentalHealth
	CategoryOutpatientMentalHealth
	CategorySubstanceUse
)

func (c ServiceCategory) String() string {
	switch c {
	case CategoryOfficeVisit:
		return "office_visit"
	case CategoryUrgentCare:
		return "urgent_care"
	case CategoryEmergency:
		return "emergency"
	case CategoryInpatientMentalHealth:
		return "inpatient_mental_health"
	case CategoryOutpatientMentalHealth:
		return "outpatient_mental_health"
	case CategorySubstanceUse:
		return "substance_use"
	default:
		return "none"
	}
}

// serviceType describes one X12 EB service-type code.
type serviceType struct {
	Name     string
	Category ServiceCategory
}

// serviceTypeTable is the full X12 271 service-type code list ("1" through
// "TN"). Most codes carry no copay category; they are kept anyway so decoded
// benefit entries can be labeled for the audit log.
var serviceTypeTable = map[string]serviceType{
	"1":  {Name: "Medical Care"},
	"2":  {Name: "Surgical"},
	"3":  {Name: "Consultation"},
	"4":  {Name: "Diagnostic X-Ray"},
	"5":  {Name: "Diagnostic Lab"},
	"6":  {Name: "Radiation Therapy"},
	"7":  {Name: "Anesthesia"},
	"8":  {Name: "Surgical Assistance"},
	"9":  {Name: "Other Medical"},
	"10": {Name: "Blood Charges"},
	"11": {Name: "Used Durable Medical Equipment"},
	"12": {Name: "Durable Medical Equipment Purchase"},
	"13": {Name: "Ambulatory Service Center Facility"},
	"14": {Name: "Renal Supplies in the Home"},
	"15": {Name: "Alternate Method Dialysis"},
	"16": {Name: "Chronic Renal Disease Equipment"},
	"17": {Name: "Pre-Admission Testing"},
	"18": {Name: "Durable Medical Equipment Rental"},
	"19": {Name: "Pneumonia Vaccine"},
	"20": {Name: "Second Surgical Opinion"},
	"21": {Name: "Third Surgical Opinion"},
	"22": {Name: "Social Work"},
	"23": {Name: "Diagnostic Dental"},
	"24": {Name: "Periodontics"},
	"25": {Name: "Restorative"},
	"26": {Name: "Endodontics"},
	"27": {Name: "Maxillofacial Prosthetics"},
	"28": {Name: "Adjunctive Dental Services"},
	"30": {Name: "Health Benefit Plan Coverage"},
	"32": {Name: "Plan Waiting Period"},
	"33": {Name: "Chiropractic"},
	"34": {Name: "Chiropractic Office Visits"},
	"35": {Name: "Dental Care"},
	"36": {Name: "Dental Crowns"},
	"37": {Name: "Dental Accident"},
	"38": {Name: "Orthodontics"},
	"39": {Name: "Prosthodontics"},
	"40": {Name: "Oral Surgery"},
	"41": {Name: "Routine Preventive Dental"},
	"42": {Name: "Home Health Care"},
	"43": {Name: "Home Health Prescriptions"},
	"44": {Name: "Home Health Visits"},
	"45": {Name: "Hospice"},
	"46": {Name: "Respite Care"},
	"47": {Name: "Hospital"},
	"48": {Name: "Hospital - Inpatient"},
	"49": {Name: "Hospital - Room and Board"},
	"50": {Name: "Hospital - Outpatient"},
	"51": {Name: "Hospital - Emergency Accident", Category: CategoryEmergency},
	"52": {Name: "Hospital - Emergency Medical", Category: CategoryEmergency},
	"53": {Name: "Hospital - Ambulatory Surgical"},
	"54": {Name: "Long Term Care"},
	"55": {Name: "Major Medical"},
	"56": {Name: "Medically Related Transportation"},
	"57": {Name: "Air Transportation"},
	"58": {Name: "Cabulance"},
	"59": {Name: "Licensed Ambulance"},
	"60": {Name: "General Benefits"},
	"61": {Name: "In-vitro Fertilization"},
	"62": {Name: "MRI/CAT Scan"},
	"63": {Name: "Donor Procedures"},
	"64": {Name: "Acupuncture"},
	"65": {Name: "Newborn Care"},
	"66": {Name: "Pathology"},
	"67": {Name: "Smoking Cessation"},
	"68": {Name: "Well Baby Care"},
	"69": {Name: "Maternity"},
	"70": {Name: "Transplants"},
	"71": {Name: "Audiology Exam"},
	"72": {Name: "Inhalation Therapy"},
	"73": {Name: "Diagnostic Medical"},
	"74": {Name: "Private Duty Nursing"},
	"75": {Name: "Prosthetic Device"},
	"76": {Name: "Dialysis"},
	"77": {Name: "Otological Exam"},
	"78": {Name: "Chemotherapy"},
	"79": {Name: "Allergy Testing"},
	"80": {Name: "Immunizations"},
	"81": {Name: "Routine Physical"},
	"82": {Name: "Family Planning"},
	"83": {Name: "Infertility"},
	"84": {Name: "Abortion"},
	"85": {Name: "AIDS"},
	"86": {Name: "Emergency Services", Category: CategoryEmergency},
	"87": {Name: "Cancer"},
	"88": {Name: "Pharmacy"},
	"89": {Name: "Free Standing Prescription Drug"},
	"90": {Name: "Mail Order Prescription Drug"},
	"91": {Name: "Brand Name Prescription Drug"},
	"92": {Name: "Generic Prescription Drug"},
	"93": {Name: "Podiatry"},
	"94": {Name: "Podiatry - Office Visits"},
	"95": {Name: "Podiatry - Nursing Home Visits"},
	"96": {Name: "Professional (Physician)"},
	"97": {Name: "Anesthesiologist"},
	"98": {Name: "Professional (Physician) Visit - Office", Category: CategoryOfficeVisit},
	"99": {Name: "Professional (Physician) Visit - Inpatient"},
	"A0": {Name: "Professional (Physician) Visit - Outpatient"},
	"A1": {Name: "Professional (Physician) Visit - Nursing Home"},
	"A2": {Name: "Professional (Physician) Visit - Skilled Nursing Facility"},
	"A3": {Name: "Professional (Physician) Visit - Home"},
	"A4": {Name: "Psychiatric", Category: CategoryOutpatientMentalHealth},
	"A5": {Name: "Psychiatric - Room and Board", Category: CategoryInpatientMentalHealth},
	"A6": {Name: "Psychotherapy", Category: CategoryOutpatientMentalHealth},
	"A7": {Name: "Psychiatric - Inpatient", Category: CategoryInpatientMentalHealth},
	"A8": {Name: "Psychiatric - Outpatient", Category: CategoryOutpatientMentalHealth},
	"A9": {Name: "Rehabilitation"},
	"AA": {Name: "Rehabilitation - Room and Board"},
	"AB": {Name: "Rehabilitation - Inpatient"},
	"AC": {Name: "Rehabilitation - Outpatient"},
	"AD": {Name: "Occupational Therapy"},
	"AE": {Name: "Physical Medicine"},
	"AF": {Name: "Speech Therapy"},
	"AG": {Name: "Skilled Nursing Care"},
	"AH": {Name: "Skilled Nursing Care - Room and Board"},
	"AI": {Name: "Substance Abuse", Category: CategorySubstanceUse},
	"AJ": {Name: "Alcoholism", Category: CategorySubstanceUse},
	"AK": {Name: "Drug Addiction", Category: CategorySubstanceUse},
	"AL": {Name: "Vision (Optometry)"},
	"AM": {Name: "Frames"},
	"AN": {Name: "Routine Exam"},
	"AO": {Name: "Lenses"},
	"AQ": {Name: "Nonmedically Necessary Physical"},
	"AR": {Name: "Experimental Drug Therapy"},
	"B1": {Name: "Burn Care"},
	"B2": {Name: "Brand Name Prescription Drug - Formulary"},
	"B3": {Name: "Brand Name Prescription Drug - Non-Formulary"},
	"BA": {Name: "Independent Medical Evaluation"},
	"BB": {Name: "Partial Hospitalization (Psychiatric)", Category: CategoryInpatientMentalHealth},
	"BC": {Name: "Day Care (Psychiatric)", Category: CategoryOutpatientMentalHealth},
	"BD": {Name: "Cognitive Therapy"},
	"BE": {Name: "Massage Therapy"},
	"BF": {Name: "Pulmonary Rehabilitation"},
	"BG": {Name: "Cardiac Rehabilitation"},
	"BH": {Name: "Pediatric"},
	"BI": {Name: "Nursery"},
	"BJ": {Name: "Skin"},
	"BK": {Name: "Orthopedic"},
	"BL": {Name: "Cardiac"},
	"BM": {Name: "Lymphatic"},
	"BN": {Name: "Gastrointestinal"},
	"BP": {Name: "Endocrine"},
	"BQ": {Name: "Neurology"},
	"BR": {Name: "Eye"},
	"BS": {Name: "Invasive Procedures"},
	"BT": {Name: "Gynecological"},
	"BU": {Name: "Obstetrical"},
	"BV": {Name: "Obstetrical/Gynecological"},
	"BW": {Name: "Mail Order Prescription Drug: Brand Name"},
	"BX": {Name: "Mail Order Prescription Drug: Generic"},
	"BY": {Name: "Physician Visit - Office: Sick", Category: CategoryOfficeVisit},
	"BZ": {Name: "Physician Visit - Office: Well", Category: CategoryOfficeVisit},
	"C1": {Name: "Coronary Care"},
	"CA": {Name: "Private Duty Nursing - Inpatient"},
	"CB": {Name: "Private Duty Nursing - Home"},
	"CC": {Name: "Surgical Benefits - Professional (Physician)"},
	"CD": {Name: "Surgical Benefits - Facility"},
	"CE": {Name: "Mental Health Provider - Inpatient", Category: CategoryInpatientMentalHealth},
	"CF": {Name: "Mental Health Provider - Outpatient", Category: CategoryOutpatientMentalHealth},
	"CG": {Name: "Mental Health Facility - Inpatient", Category: CategoryInpatientMentalHealth},
	"CH": {Name: "Mental Health Facility - Outpatient", Category: CategoryOutpatientMentalHealth},
	"CI": {Name: "Substance Abuse Facility - Inpatient", Category: CategorySubstanceUse},
	"CJ": {Name: "Substance Abuse Facility - Outpatient", Category: CategorySubstanceUse},
	"CK": {Name: "Screening X-ray"},
	"CL": {Name: "Screening Laboratory"},
	"CM": {Name: "Mammogram, High Risk Patient"},
	"CN": {Name: "Mammogram, Low Risk Patient"},
	"CO": {Name: "Flu Vaccination"},
	"CP": {Name: "Eyewear and Eyewear Accessories"},
	"CQ": {Name: "Case Management"},
	"DG": {Name: "Dermatology"},
	"DM": {Name: "Durable Medical Equipment"},
	"DS": {Name: "Diabetic Supplies"},
	"GF": {Name: "Generic Prescription Drug - Formulary"},
	"GN": {Name: "Generic Prescription Drug - Non-Formulary"},
	"GY": {Name: "Allergy"},
	"IC": {Name: "Intensive Care"},
	"MH": {Name: "Mental Health", Category: CategoryOutpatientMentalHealth},
	"NI": {Name: "Neonatal Intensive Care"},
	"ON": {Name: "Oncology"},
	"PT": {Name: "Physical Therapy"},
	"PU": {Name: "Pulmonary"},
	"RN": {Name: "Renal"},
	"RT": {Name: "Residential Psychiatric Treatment", Category: CategoryInpatientMentalHealth},
	"TC": {Name: "Transitional Care"},
	"TN": {Name: "Transitional Nursery Care"},
	"UC": {Name: "Urgent Care", Category: CategoryUrgentCare},
}

// lookupServiceType returns the entry for a code, with ok=false for codes
// outside the table (payer-proprietary codes show up occasionally).
func lookupServiceType(code string) (serviceType, bool) {
	st, ok := serviceTypeTable[code]
	return st, ok
}

// categoriesForCodes collapses a service-type code list (EB03, possibly
// repeated with '^') to the distinct categories it touches, preserving the
// order codes appeared in.
func categoriesForCodes(codes []string) []ServiceCategory {
	seen := map[ServiceCategory]bool{}
	var out []ServiceCategory
	for _, code := range codes {
		st, ok := lookupServiceType(code)
		if !ok || st.Category == CategoryNone {
			continue
		}
		if !seen[st.Category] {
			seen[st.Category] = true
			out = append(out, st.Category)
		}
	}
	return out
}
