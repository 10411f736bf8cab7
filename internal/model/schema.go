package model

// Column names of the Diabetes 130-US hospitals encounter table that the
// pipeline references directly.
const (
	ColEncounterID          = "encounter_id"
	ColPatientNbr           = "patient_nbr"
	ColGender               = "gender"
	ColWeight               = "weight"
	ColPayerCode            = "payer_code"
	ColMedicalSpecialty     = "medical_specialty"
	ColDischargeDisposition = "discharge_disposition_id"
	ColTimeInHospital       = "time_in_hospital"
	ColNumberInpatient      = "number_inpatient"
	ColNumberDiagnoses      = "number_diagnoses"
	ColDiag1                = "diag_1"
	ColDiag2                = "diag_2"
	ColDiag3                = "diag_3"
	ColReadmitted           = "readmitted"
)

// PrunedColumns are dropped before any other transformation: the encounter
// id, and the three columns with more than a third of their values missing.
var PrunedColumns = []string{ColEncounterID, ColWeight, ColPayerCode, ColMedicalSpecialty}

// DiagnosticColumns hold ICD-9 codes recoded into Category labels.
var DiagnosticColumns = []string{ColDiag1, ColDiag2, ColDiag3}

// CappedColumns are clipped to the outlier cap.
var CappedColumns = []string{ColTimeInHospital, ColNumberInpatient, ColNumberDiagnoses}

// RequiredColumns lists every column the pipeline reads by name.
func RequiredColumns() []string {
	cols := []string{
		ColPatientNbr, ColGender, ColDischargeDisposition, ColReadmitted,
	}
	cols = append(cols, DiagnosticColumns...)
	cols = append(cols, CappedColumns...)
	return cols
}

const (
	// ReadmittedWithin30 is the raw label value that recodes to 1.
	ReadmittedWithin30 = "<30"
	// TargetPositive and TargetNegative are the recoded label values.
	TargetPositive = "1"
	TargetNegative = "0"

	// MissingSentinel marks a missing value in the raw file.
	MissingSentinel = "?"

	// DispositionExpired is the discharge_disposition_id meaning the patient died.
	DispositionExpired = 11

	// DefaultCap is the maximum kept value for CappedColumns.
	DefaultCap = 10

	// DefaultSeed seeds every random selection in the deduplicator.
	DefaultSeed = 1234
)

// RecognizedGenders are the gender values kept by the residual filter.
var RecognizedGenders = []string{"Female", "Male"}
