// Package synth generates reproducible visit and patient tables with the
// column layout the trainers expect, for demos and integration tests.
package synth

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"diagnosd/internal/dataset"
)

// Diagnosis is one generated class: its relative frequency and the symptoms
// that are likely when it is present.
type Diagnosis struct {
	Name      string
	Weight    float64
	Signature []string
	TempShift float64
}

// DefaultDiagnoses have distinct frequencies so the top-k order is stable.
var DefaultDiagnoses = []Diagnosis{
	{Name: "respiratory", Weight: 0.30, Signature: []string{"fever", "cough", "sore_throat", "runny_nose"}, TempShift: 1.2},
	{Name: "gastrointestinal", Weight: 0.25, Signature: []string{"diarrhea", "vomiting", "fatigue"}, TempShift: 0.4},
	{Name: "cardiac", Weight: 0.20, Signature: []string{"chest_pain", "palpitations", "dizziness"}},
	{Name: "urinary", Weight: 0.15, Signature: []string{"dysuria", "freq_urination", "back_pain"}, TempShift: 0.6},
	{Name: "dermatological", Weight: 0.10, Signature: []string{"rash", "eye_redness"}},
}

// Symptoms are the generated symptom_* columns, in column order.
var Symptoms = []string{
	"fever", "cough", "sore_throat", "diarrhea", "vomiting", "rash", "headache",
	"dizziness", "chest_pain", "palpitations", "dysuria", "freq_urination",
	"joint_pain", "back_pain", "ear_pain", "runny_nose", "eye_redness", "fatigue",
}

// SeedConfig controls the volume and shape of the generated tables.
type SeedConfig struct {
	Patients         int
	VisitsPerPatient int
	// MissingRate blanks that share of vital readings.
	MissingRate float64
	Diagnoses   []Diagnosis
	Seed        int64
}

// DefaultSeedConfig returns a config that yields enough rows per class for
// the default balanced quantum sets.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{Patients: 600, VisitsPerPatient: 2, MissingRate: 0.02, Diagnoses: DefaultDiagnoses, Seed: 7}
}

// Generate returns the visits and patients tables.
func Generate(cfg SeedConfig) (visits, patients *dataset.Frame, err error) {
	if cfg.Patients <= 0 || cfg.VisitsPerPatient <= 0 {
		return nil, nil, fmt.Errorf("synth: patients and visits per patient must be positive")
	}
	if len(cfg.Diagnoses) == 0 {
		cfg.Diagnoses = DefaultDiagnoses
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	pcols := []string{"patient_id", "age_group", "gender", "chronic_diabetes", "chronic_hypertension", "risk_group"}
	ages := []string{"0-17", "18-39", "40-64", "65+"}
	prows := make([][]string, cfg.Patients)
	for i := range prows {
		age := rng.Intn(len(ages))
		prows[i] = []string{
			strconv.Itoa(i + 1),
			ages[age],
			[]string{"F", "M"}[rng.Intn(2)],
			flag(rng, 0.05+0.08*float64(age)),
			flag(rng, 0.05+0.1*float64(age)),
			flag(rng, 0.2),
		}
	}

	vcols := []string{"visit_id", "patient_id"}
	for _, s := range Symptoms {
		vcols = append(vcols, "symptom_"+s)
	}
	vcols = append(vcols, "temp_c", "spo2", "heart_rate", "triage_level", "visit_mode", "region_id", "facility_id", "diagnosis_group")

	var vrows [][]string
	id := 0
	for p := 1; p <= cfg.Patients; p++ {
		for v := 0; v < cfg.VisitsPerPatient; v++ {
			id++
			d := pick(rng, cfg.Diagnoses)
			sig := make(map[string]bool, len(d.Signature))
			for _, s := range d.Signature {
				sig[s] = true
			}
			row := []string{strconv.Itoa(id), strconv.Itoa(p)}
			for _, s := range Symptoms {
				prob := 0.08
				if sig[s] {
					prob = 0.85
				}
				row = append(row, flag(rng, prob))
			}
			temp := 36.8 + d.TempShift + rng.NormFloat64()*0.4
			spo2 := 97.5 - d.TempShift + rng.NormFloat64()
			hr := 75 + 12*d.TempShift + rng.NormFloat64()*8
			if d.Name == "cardiac" {
				hr += 20
			}
			region := 1 + rng.Intn(4)
			row = append(row,
				vital(rng, cfg.MissingRate, temp, 1),
				vital(rng, cfg.MissingRate, spo2, 0),
				vital(rng, cfg.MissingRate, hr, 0),
				strconv.Itoa(1+rng.Intn(5)),
				[]string{"in_person", "telehealth"}[rng.Intn(2)],
				strconv.Itoa(region),
				strconv.Itoa(region*10+rng.Intn(3)),
				d.Name,
			)
			vrows = append(vrows, row)
		}
	}

	if visits, err = dataset.NewFrame(vcols, vrows); err != nil {
		return nil, nil, err
	}
	if patients, err = dataset.NewFrame(pcols, prows); err != nil {
		return nil, nil, err
	}
	return visits, patients, nil
}

// WriteFiles generates both tables into dir as visits.csv and patients.csv
// and returns their paths.
func WriteFiles(dir string, cfg SeedConfig) (visitsPath, patientsPath string, err error) {
	visits, patients, err := Generate(cfg)
	if err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	visitsPath = filepath.Join(dir, "visits.csv")
	patientsPath = filepath.Join(dir, "patients.csv")
	if err := writeFrame(visitsPath, visits); err != nil {
		return "", "", err
	}
	if err := writeFrame(patientsPath, patients); err != nil {
		return "", "", err
	}
	return visitsPath, patientsPath, nil
}

func writeFrame(path string, f *dataset.Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dataset.WriteCSV(out, f); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

func flag(rng *rand.Rand, p float64) string {
	if rng.Float64() < p {
		return "1"
	}
	return "0"
}

func vital(rng *rand.Rand, missing, v float64, prec int) string {
	if rng.Float64() < missing {
		return ""
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func pick(rng *rand.Rand, ds []Diagnosis) Diagnosis {
	total := 0.0
	for _, d := range ds {
		total += d.Weight
	}
	r := rng.Float64() * total
	for _, d := range ds {
		if r < d.Weight {
			return d
		}
		r -= d.Weight
	}
	return ds[len(ds)-1]
}
