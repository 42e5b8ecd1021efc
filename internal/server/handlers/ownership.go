package handlers

import "errors"

var (
	// ErrNotFound ресурс не существует
	ErrNotFound = errors.New("not found")
	// ErrForbidden ресурс принадлежит другому пользователю
	ErrForbidden = errors.New("forbidden")
)

// CheckOwnership проверяет доступ субъекта к ресурсу.
// Отсутствие ресурса проверяется раньше владельца, поэтому
// "не найден" никогда не выдается за "запрещено".
func CheckOwnership(found bool, ownerID, subjectID string) error {
	if !found {
		return ErrNotFound
	}
	if ownerID != subjectID {
		return ErrForbidden
	}
	return nil
}
