package validation

import (
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// RegisterInput данные регистрации
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput данные входа
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateRegister проверяет все поля регистрации и собирает все ошибки сразу
func ValidateRegister(in RegisterInput) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	err := ozzo.ValidateStruct(&in,
		ozzo.Field(&in.Username, ozzo.Required.Error("username is required"), ozzo.By(usernameRule)),
		ozzo.Field(&in.Email, ozzo.Required.Error("email is required"), is.Email.Error("invalid email format")),
		ozzo.Field(&in.Password, ozzo.Required.Error("password is required"), ozzo.By(passwordRule)),
	)

	fe, ierr := fromOzzo(err)
	if ierr != nil {
		return ierr
	}
	return fe.Err()
}

// ValidateLogin проверяет наличие email и пароля
func ValidateLogin(in LoginInput) error {
	err := ozzo.ValidateStruct(&in,
		ozzo.Field(&in.Email, ozzo.Required.Error("email is required")),
		ozzo.Field(&in.Password, ozzo.Required.Error("password is required")),
	)

	fe, ierr := fromOzzo(err)
	if ierr != nil {
		return ierr
	}
	return fe.Err()
}

func usernameRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	return ValidateUsername(s)
}

func passwordRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	return ValidatePassword(s)
}
