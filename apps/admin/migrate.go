package main

import (
	"github.com/trezcool/madrasa/storage/database"
)

var gooseRunFunc = database.Migrate // mockable

func (cli *commandLine) migrate(args []string) error {
	db, err := cli.sqlDB()
	if err != nil {
		return err
	}
	return gooseRunFunc(db, args[0], args[1:]...)
}
