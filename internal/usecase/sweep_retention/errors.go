package sweep_retention

import "errors"

var (
	// ErrUnknownPolicy возвращается при неизвестной политике хранения
	ErrUnknownPolicy = errors.New("sweep_retention: unknown retention policy")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("sweep_retention: internal error")
)
