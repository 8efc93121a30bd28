package intent

// Success tags.
const (
	TagCapital              = "capital"
	TagArea                 = "area"
	TagCurrency             = "currency"
	TagMath                 = "math"
	TagRandomNumber         = "random number"
	TagJokes                = "jokes"
	TagAdvices              = "advices"
	TagNameGetter           = "name getter"
	TagNameSetter           = "name setter"
	TagMoviesGenres         = "movies genres"
	TagMoviesSearch         = "movies search"
	TagMoviesSearchFromData = "movies search from data"
)

// Failure tags.
const (
	TagNoCountry          = "no country"
	TagDontUnderstand     = "don't understand"
	TagMathNotValid       = "math not valid"
	TagNoRandomRange      = "no random range"
	TagNoJokes            = "no jokes"
	TagNoAdvices          = "no advices"
	TagDontKnowName       = "don't know name"
	TagNoName             = "no name"
	TagNoGenres           = "no genres"
	TagNoMovie            = "no movie"
	TagNoGenresSaved      = "no genres saved"
	TagNoToken            = "no token"
	TagProfileUnavailable = "profile unavailable"
	TagUnknownIntent      = "unknown intent"
	TagInternalError      = "internal error"
)

// Kind groups failure tags by cause.
type Kind string

const (
	KindSuccess           Kind = "success"
	KindNotFound          Kind = "not_found"
	KindMalformedInput    Kind = "malformed_input"
	KindEvaluationFailure Kind = "evaluation_failure"
	KindExternalFailure   Kind = "external_failure"
	KindStateAbsent       Kind = "state_absent"
)

var tagKinds = map[string]Kind{
	TagNoCountry:          KindNotFound,
	TagNoName:             KindNotFound,
	TagNoMovie:            KindNotFound,
	TagNoGenres:           KindNotFound,
	TagUnknownIntent:      KindNotFound,
	TagDontUnderstand:     KindMalformedInput,
	TagNoRandomRange:      KindMalformedInput,
	TagMathNotValid:       KindEvaluationFailure,
	TagNoJokes:            KindExternalFailure,
	TagNoAdvices:          KindExternalFailure,
	TagProfileUnavailable: KindExternalFailure,
	TagInternalError:      KindExternalFailure,
	TagDontKnowName:       KindStateAbsent,
	TagNoGenresSaved:      KindStateAbsent,
	TagNoToken:            KindStateAbsent,
}

var fallbackMessages = map[string]string{
	TagNoCountry:          "Country not found",
	TagDontUnderstand:     "Could not understand the math operation",
	TagMathNotValid:       "Invalid math operation",
	TagNoRandomRange:      "No valid range provided",
	TagNoJokes:            "No jokes available",
	TagNoAdvices:          "No advices available",
	TagDontKnowName:       "Name is not set",
	TagNoName:             "No valid name found",
	TagNoGenres:           "No valid genres found",
	TagNoMovie:            "No movie found",
	TagNoGenresSaved:      "No genres saved",
	TagNoToken:            "No user token provided",
	TagProfileUnavailable: "User profile is unavailable",
	TagUnknownIntent:      "Unknown intent",
	TagInternalError:      "Something went wrong",
}

// KindOf returns the cause group of tag. Unknown tags are successes.
func KindOf(tag string) Kind {
	if k, ok := tagKinds[tag]; ok {
		return k
	}
	return KindSuccess
}

// FallbackMessage returns the default message for a failure tag, or the tag itself.
func FallbackMessage(tag string) string {
	if msg, ok := fallbackMessages[tag]; ok {
		return msg
	}
	return tag
}

// FailureTags lists every failure tag.
func FailureTags() []string {
	tags := make([]string, 0, len(fallbackMessages))
	for tag := range fallbackMessages {
		tags = append(tags, tag)
	}
	return tags
}
