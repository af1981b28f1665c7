package scenedata

import (
	"log"
	"os"
)

func orDefault(logger *log.Logger) *log.Logger {
	if logger != nil {
		return logger
	}
	return log.New(os.Stderr, "addrscene: ", log.LstdFlags)
}
