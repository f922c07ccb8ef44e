package schema

import "fmt"

// QuestionType is the wire type code of a survey or prompt question.
type QuestionType int

const (
	TypeSelectOne      QuestionType = 1
	TypeSelectMany     QuestionType = 2
	TypeNumber         QuestionType = 3
	TypeAddress        QuestionType = 4
	TypeText           QuestionType = 5
	TypeTermsOfService QuestionType = 98
	TypePageBreak      QuestionType = 99

	// Hardcoded legacy questions.
	TypeGender        QuestionType = 100
	TypeAge           QuestionType = 101
	TypePrimaryMode   QuestionType = 102
	TypeEmail         QuestionType = 103
	TypeOccupation    QuestionType = 104
	TypeHomeLocation  QuestionType = 105
	TypeStudyLocation QuestionType = 106
	TypeWorkLocation  QuestionType = 107
	TypeStudyMode     QuestionType = 108
	TypeStudyAltMode  QuestionType = 109
	TypeWorkMode      QuestionType = 110
	TypeWorkAltMode   QuestionType = 111
)

// AllQuestionTypes lists every known code in wire order.
var AllQuestionTypes = []QuestionType{
	TypeSelectOne, TypeSelectMany, TypeNumber, TypeAddress, TypeText,
	TypeTermsOfService, TypePageBreak,
	TypeGender, TypeAge, TypePrimaryMode, TypeEmail, TypeOccupation,
	TypeHomeLocation, TypeStudyLocation, TypeWorkLocation,
	TypeStudyMode, TypeStudyAltMode, TypeWorkMode, TypeWorkAltMode,
}

// DecodeStrategy selects how a raw answer is turned into its stored value.
type DecodeStrategy int

const (
	DecodeInvalid DecodeStrategy = iota
	// DecodeVerbatim stores the answer as sent (free text, email, custom choice text).
	DecodeVerbatim
	// DecodeCodedChoice maps an integer index, or list of indices, to choice text.
	DecodeCodedChoice
	DecodeNumber
	DecodeGeoPair
	DecodeBoolean
	// DecodeNone accepts only an empty answer.
	DecodeNone
)

func (s DecodeStrategy) String() string {
	switch s {
	case DecodeVerbatim:
		return "verbatim"
	case DecodeCodedChoice:
		return "coded_choice"
	case DecodeNumber:
		return "number"
	case DecodeGeoPair:
		return "geo_pair"
	case DecodeBoolean:
		return "boolean"
	case DecodeNone:
		return "none"
	default:
		return "invalid"
	}
}

// ParseQuestionType validates a stored or seeded type code.
func ParseQuestionType(code int) (QuestionType, error) {
	t := QuestionType(code)
	if t.Strategy() == DecodeInvalid {
		return 0, fmt.Errorf("unknown question type %d", code)
	}
	return t, nil
}

func (t QuestionType) Strategy() DecodeStrategy {
	switch t {
	case TypeSelectOne, TypeSelectMany, TypeText, TypeEmail:
		return DecodeVerbatim
	case TypeNumber:
		return DecodeNumber
	case TypeAddress, TypeHomeLocation, TypeStudyLocation, TypeWorkLocation:
		return DecodeGeoPair
	case TypeTermsOfService:
		return DecodeBoolean
	case TypePageBreak:
		return DecodeNone
	case TypeGender, TypeAge, TypePrimaryMode, TypeOccupation,
		TypeStudyMode, TypeStudyAltMode, TypeWorkMode, TypeWorkAltMode:
		return DecodeCodedChoice
	default:
		return DecodeInvalid
	}
}

// Legacy reports whether t is one of the platform-defined hardcoded types.
func (t QuestionType) Legacy() bool {
	return t >= TypeGender && t <= TypeWorkAltMode
}

// Fields are the answer field names the mobile app renders for t.
func (t QuestionType) Fields() []string {
	switch t {
	case TypeSelectOne, TypeSelectMany, TypePrimaryMode, TypeOccupation,
		TypeStudyMode, TypeStudyAltMode, TypeWorkMode, TypeWorkAltMode:
		return []string{"choices"}
	case TypeNumber:
		return []string{"number"}
	case TypeAddress, TypeHomeLocation, TypeStudyLocation, TypeWorkLocation:
		return []string{"latitude", "longitude"}
	case TypeText, TypeTermsOfService:
		return []string{"text"}
	case TypeGender:
		return []string{"gender"}
	case TypeAge:
		return []string{"age"}
	case TypeEmail:
		return []string{"email"}
	default:
		return nil
	}
}
