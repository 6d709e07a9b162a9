package utils

import "errors"

var ErrorInvalidInput = errors.New("invalid input")
