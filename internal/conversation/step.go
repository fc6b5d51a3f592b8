package conversation

import "fmt"

// Step is a stage of the screening conversation.
type Step int

const (
	StepGreeting Step = iota
	StepCollectName
	StepCollectEmail
	StepCollectPhone
	StepCollectLocation
	StepCollectExperience
	StepCollectPosition
	StepCollectTechStack
	StepTechAssessment
	StepEnd
)

var stepNames = [...]string{
	StepGreeting:          "greeting",
	StepCollectName:       "collect_name",
	StepCollectEmail:      "collect_email",
	StepCollectPhone:      "collect_phone",
	StepCollectLocation:   "collect_location",
	StepCollectExperience: "collect_experience",
	StepCollectPosition:   "collect_position",
	StepCollectTechStack:  "collect_tech_stack",
	StepTechAssessment:    "tech_assessment",
	StepEnd:               "end",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

func (s Step) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(stepNames) {
		return nil, fmt.Errorf("unknown step %d", int(s))
	}
	return []byte(stepNames[s]), nil
}

func (s *Step) UnmarshalText(text []byte) error {
	for i, name := range stepNames {
		if name == string(text) {
			*s = Step(i)
			return nil
		}
	}
	return fmt.Errorf("unknown step %q", string(text))
}
