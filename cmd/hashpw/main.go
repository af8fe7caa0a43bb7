// hashpw печатает bcrypt-хеш для переменной ADMIN_PASSWORD_HASH.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/mituwo-320/asket-entry/utils"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var password string
	if len(os.Args) > 1 {
		password = os.Args[1]
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			password = scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			logger.Error("failed to read password", slog.Any("error", err))
			os.Exit(1)
		}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Println(hash)
}
