package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	addressPrompt      = "Введите адрес, для которого хотите узнать погоду: "
	emptyAddressPrompt = "Вы не ввели адрес. Повторите попытку: "
)

var validate = validator.New()

// errNoAddress means input ended before a non-empty address was entered.
var errNoAddress = errors.New("no address entered")

// readAddress prompts on out until a non-blank line is read from in.
func readAddress(in *bufio.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, addressPrompt)
	for {
		line, err := in.ReadString('\n')
		address := strings.TrimSpace(line)
		if validate.Var(address, "required") == nil {
			return address, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", errNoAddress
			}
			return "", err
		}
		fmt.Fprint(out, emptyAddressPrompt)
	}
}
