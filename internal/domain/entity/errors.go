package entity

import "errors"

var (
	// ErrInvalidImage: изображение не декодируется или имеет нулевую площадь.
	ErrInvalidImage = errors.New("invalid image")
	// ErrModelUnavailable: артефакт модели отсутствует или повреждён, сервис не стартует.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrMalformedScore: выход классификатора не является распределением над двумя классами.
	ErrMalformedScore = errors.New("malformed score vector")
	// ErrExplanationService: сбой внешнего сервиса пояснений. Наружу из объяснителя не выходит.
	ErrExplanationService = errors.New("explanation service error")
)
