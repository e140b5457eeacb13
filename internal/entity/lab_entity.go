package entity

import (
	"time"

	"ai-workflow-be/pkg/store"
)

const DefaultLabMaxSteps = 5

type LabConfig struct {
	ExperimentName string `json:"experimentName"`
	Level          string `json:"level"`
	MaxSteps       int    `json:"maxSteps"`
}

type ExperimentIntroduction struct {
	Title      string   `json:"title"`
	Objective  string   `json:"objective"`
	Background string   `json:"background"`
	Procedure  []string `json:"procedure"`
	Safety     []string `json:"safety"`
	Equipment  []string `json:"equipment,omitempty"`
}

type EquipmentAnalysis struct {
	Suitable        bool     `json:"suitable"`
	Analysis        string   `json:"analysis"`
	Missing         []string `json:"missing"`
	Recommendations []string `json:"recommendations"`
}

type ActionResult struct {
	Action       string `json:"action"`
	Outcome      string `json:"outcome"`
	Observations string `json:"observations"`
	Correct      bool   `json:"correct"`
	Feedback     string `json:"feedback"`
}

type LabQuestion struct {
	Step     int       `json:"step"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"askedAt"`
}

// LabStep is one procedure step as instructed, with the actions the student
// performed while on it.
type LabStep struct {
	Number       int            `json:"number"`
	Instructions string         `json:"instructions"`
	Actions      []ActionResult `json:"actions,omitempty"`
}

type LabState struct {
	Introduction      ExperimentIntroduction `json:"introduction"`
	SelectedEquipment []string               `json:"selectedEquipment,omitempty"`
	Equipment         *EquipmentAnalysis     `json:"equipment,omitempty"`
	Questions         []LabQuestion          `json:"questions,omitempty"`
}

type LabSummary struct {
	Summary     string   `json:"summary"`
	Conclusions []string `json:"conclusions"`
	Score       float64  `json:"score"`
}

type LabSession = store.Session[LabConfig, LabStep, LabState]

func CloneLabSession(s LabSession) LabSession {
	s = s.Clone(func(d LabState) LabState {
		d.SelectedEquipment = append([]string(nil), d.SelectedEquipment...)
		d.Questions = append([]LabQuestion(nil), d.Questions...)
		if d.Equipment != nil {
			eq := *d.Equipment
			d.Equipment = &eq
		}
		return d
	})
	for i := range s.History {
		s.History[i].Actions = append([]ActionResult(nil), s.History[i].Actions...)
	}
	return s
}
