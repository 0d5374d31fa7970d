package main

import (
	"context"
	"os"

	"github.com/opensdd/jira-cli/cmd/jira-cli/app"
)

var version = "dev"

func main() {
	app.Version = version
	os.Exit(app.Execute(context.Background()))
}
