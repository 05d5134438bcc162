// Command nursing runs the in-home nursing services API.
//
// @title                       Nursing Services API
// @version                     1.0
// @description                 Brokers in-home nursing services between clients and nurses.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
