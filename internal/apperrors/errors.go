package apperrors

import "errors"

// Error — категориальная ошибка бизнес-логики со стабильным кодом.
// Каждая операция возвращает ровно одну такую ошибку — первую по
// порядку проверки предусловий, без цепочки причин.
type Error struct {
	code string
}

func (e *Error) Error() string { return e.code }

// Code возвращает стабильный код ошибки.
func (e *Error) Code() string { return e.code }

func newError(code string) *Error { return &Error{code: code} }

var (
	ErrPermissionDenied = newError("PERMISSION_DENIED")
	ErrNoSuchAdmin      = newError("NO_SUCH_ADMIN")
	ErrNoSuchHRBP       = newError("NO_SUCH_HRBP")
	ErrNoSuchTutor      = newError("NO_SUCH_TUTOR")
	ErrNoSuchNewbie     = newError("NO_SUCH_NEWBIE")
	ErrNoSuchUser       = newError("NO_SUCH_USER")

	ErrInvalidDivision = newError("INVALID_DIVISION")
	ErrInvalidCity     = newError("INVALID_CITY")
	ErrDuplicateName   = newError("DUPLICATE_NAME")
	ErrTagUsed         = newError("TAG_USED")

	ErrNoSuchExam    = newError("NO_SUCH_EXAM")
	ErrNoSuchTask    = newError("NO_SUCH_TASK")
	ErrNoSuchCourse  = newError("NO_SUCH_COURSE")
	ErrNoSuchSection = newError("NO_SUCH_SECTION")
	ErrAlreadyUsed   = newError("ALREADY_USED")

	ErrInvalidQuestion  = newError("INVALID_QUESTION")
	ErrInvalidThreshold = newError("INVALID_THRESHOLD")

	ErrNoTutorAssigned  = newError("NO_TUTOR_ASSIGNED")
	ErrTrainingAssigned = newError("TRAINING_ASSIGNED")
	ErrInvalidExam      = newError("INVALID_EXAM")
	ErrInvalidTask      = newError("INVALID_TASK")
	ErrInvalidCourse    = newError("INVALID_COURSE")

	ErrInvalidAnswer      = newError("INVALID_ANSWER")
	ErrInvalidAnswerCount = newError("INVALID_ANSWER_COUNT")

	ErrUnavailable = newError("UNAVAILABLE")
)

// CodeOf извлекает код из ошибки; пустая строка, если ошибка не наша.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return ""
}

// IsNotFound сообщает, относится ли ошибка к классу "сущность не найдена".
func IsNotFound(err error) bool {
	switch {
	case errors.Is(err, ErrNoSuchAdmin),
		errors.Is(err, ErrNoSuchHRBP),
		errors.Is(err, ErrNoSuchTutor),
		errors.Is(err, ErrNoSuchNewbie),
		errors.Is(err, ErrNoSuchUser),
		errors.Is(err, ErrNoSuchExam),
		errors.Is(err, ErrNoSuchTask),
		errors.Is(err, ErrNoSuchCourse),
		errors.Is(err, ErrNoSuchSection):
		return true
	}
	return false
}
