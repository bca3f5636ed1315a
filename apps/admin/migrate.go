package main

import (
	"github.com/pressly/goose/v3"
)

const migrationsDir = "migrations"

var gooseRunFunc = goose.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoDatabase
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db, migrationsDir, arguments...)
}
