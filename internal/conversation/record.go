package conversation

import "github.com/spigell/talentscout/internal/sentiment"

// Candidate is everything collected about the candidate in one session.
type Candidate struct {
	Name            string              `json:"name"`
	Email           string              `json:"email"`
	Phone           string              `json:"phone"`
	Location        string              `json:"location"`
	YearsExperience int                 `json:"years_experience"`
	Position        string              `json:"position"`
	TechStack       []string            `json:"tech_stack"`
	TechQuestions   map[string][]string `json:"tech_questions"`
	Answers         map[string][]Answer `json:"answers"`
}

// Answer is the candidate's reply to a main question.
type Answer struct {
	Question  string           `json:"question"`
	Answer    string           `json:"answer"`
	Sentiment sentiment.Score  `json:"sentiment"`
	FollowUps []FollowUpRecord `json:"follow_ups"`
}

// FollowUpRecord is one follow-up exchange attached to an Answer.
type FollowUpRecord struct {
	Question  string          `json:"question"`
	Answer    string          `json:"answer"`
	Sentiment sentiment.Score `json:"sentiment"`
}

func (c Candidate) clone() Candidate {
	out := c
	out.TechStack = append([]string(nil), c.TechStack...)

	if c.TechQuestions != nil {
		out.TechQuestions = make(map[string][]string, len(c.TechQuestions))
		for tech, questions := range c.TechQuestions {
			out.TechQuestions[tech] = append([]string(nil), questions...)
		}
	}

	if c.Answers != nil {
		out.Answers = make(map[string][]Answer, len(c.Answers))
		for tech, answers := range c.Answers {
			copied := make([]Answer, len(answers))
			for i, a := range answers {
				copied[i] = a
				copied[i].FollowUps = append([]FollowUpRecord(nil), a.FollowUps...)
			}
			out.Answers[tech] = copied
		}
	}

	return out
}
