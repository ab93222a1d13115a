package domain

type Feeling string

const (
	FeelingPositive Feeling = "positive"
	FeelingNegative Feeling = "negative"
	FeelingNeutral  Feeling = "neutral"
)

type InformationDocument struct {
	Description string  `json:"description"`
	Summary     string  `json:"summary"`
	Feeling     Feeling `json:"feeling"`
}
