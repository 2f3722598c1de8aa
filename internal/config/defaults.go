package config

import (
	"diagnosd/internal/pipeline"
	"diagnosd/internal/preprocess"
)

// Artifact file names under ModelsDir.
const (
	ClassicalFileName = "classical_logistic_regression_FULL.json"
	QuantumFileName   = "quantum_qsvc_FULL.json"
)

// SymptomColumns are the binary symptom flags of a visit.
var SymptomColumns = []string{
	"symptom_fever", "symptom_cough", "symptom_sore_throat", "symptom_diarrhea",
	"symptom_vomiting", "symptom_rash", "symptom_headache", "symptom_dizziness",
	"symptom_chest_pain", "symptom_palpitations", "symptom_dysuria",
	"symptom_freq_urination", "symptom_joint_pain", "symptom_back_pain",
	"symptom_ear_pain", "symptom_runny_nose", "symptom_eye_redness",
	"symptom_fatigue",
}

// ClassicalGroups is the 29-column input of the classical model.
func ClassicalGroups() preprocess.FeatureGroups {
	return preprocess.FeatureGroups{
		Symptom:     append([]string(nil), SymptomColumns...),
		Vital:       []string{"temp_c", "spo2", "heart_rate", "triage_level"},
		Categorical: []string{"visit_mode", "region_id", "age_group", "gender"},
		Binary:      []string{"chronic_diabetes", "chronic_hypertension", "risk_group"},
	}
}

// QuantumGroups is the 30-column input of the quantum model; it adds
// facility_id right after region_id, at position 24.
func QuantumGroups() preprocess.FeatureGroups {
	g := ClassicalGroups()
	g.Categorical = []string{"visit_mode", "region_id", "facility_id", "age_group", "gender"}
	return g
}

// Default returns the configuration every unset value falls back to.
func Default() Config {
	return Config{
		Addr:          ":8000",
		ModelsDir:     "models",
		ClassicalFile: ClassicalFileName,
		QuantumFile:   QuantumFileName,
		LogLevel:      "info",
		CORSOrigins:   []string{"*"},
		MaxBodyBytes:  1 << 20,
		CacheSize:     0,
		Shim:          Shim{Enabled: true, Index: 24, Value: 1.0},
		Train: Train{
			VisitsPath:   "data/visits.csv",
			PatientsPath: "data/patients.csv",
			Target:       "diagnosis_group",
			LedgerPath:   "models/runs.db",
			Classical: ClassicalTrain{
				Groups:   ClassicalGroups(),
				TestSize: 0.2,
				Seed:     42,
				Model:    pipeline.ClassicalOptions{C: 1, MaxIter: 5000},
			},
			Quantum: QuantumTrain{
				Groups:        QuantumGroups(),
				TopK:          4,
				TrainPerClass: 100,
				TestPerClass:  25,
				Seed:          42,
				Model:         pipeline.QuantumOptions{Qubits: 6, Reps: 1, Entanglement: "linear", C: 1},
			},
		},
	}
}
