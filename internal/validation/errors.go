package validation

import (
	"errors"
	"sort"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation"
)

// FieldErrors ошибки валидации по полям (имя поля в JSON -> сообщение)
type FieldErrors map[string]string

// Error реализует интерфейс error
func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}

// Add добавляет ошибку поля, если для него еще нет ошибки
func (fe FieldErrors) Add(field, msg string) {
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

// Err возвращает nil для пустого набора
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// AsFieldErrors извлекает FieldErrors из цепочки ошибок
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// fromOzzo переводит ошибки ozzo-validation в FieldErrors.
// Внутренние ошибки правил (не ошибки данных) возвращаются как есть.
func fromOzzo(err error) (FieldErrors, error) {
	fe := FieldErrors{}
	if err == nil {
		return fe, nil
	}

	var verrs ozzo.Errors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	for field, ferr := range verrs {
		if ferr != nil {
			fe[field] = ferr.Error()
		}
	}
	return fe, nil
}
