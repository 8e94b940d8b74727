package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/modelcheck/modelcheck/pkg/config"
	"github.com/modelcheck/modelcheck/pkg/schema"
)

var cli struct {
	OutFile string `default:"schema.json" help:"Output file for the generated schema" short:"o"`
}

func main() {
	cliCtx := kong.Parse(&cli)

	gen := schema.NewGenerator(config.New(),
		"github.com/modelcheck/modelcheck/pkg/config",
	)
	jsData, err := gen.Generate()
	if err != nil {
		cliCtx.FatalIfErrorf(fmt.Errorf("generate JSON schema: %w", err))
	}

	err = os.WriteFile(cli.OutFile, jsData, 0o600)
	if err != nil {
		cliCtx.FatalIfErrorf(fmt.Errorf("write schema file: %w", err))
	}
}
