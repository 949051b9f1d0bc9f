package main

import "github.com/lokeshwaranbm/No-code-data-analytics/cmd"

func main() {
	cmd.Execute()
}
