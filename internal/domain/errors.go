package domain

import "errors"

var (
	ErrNotFound   = errors.New("запись не найдена")
	ErrConflict   = errors.New("выбранное время уже занято")
	ErrValidation = errors.New("ошибка валидации")
)
