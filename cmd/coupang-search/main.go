package main

import (
	"context"
	"os"

	"coupang-search/cmd/coupang-search/commands"
	"coupang-search/lib/osutil"
)

func main() {
	ctx, cancel := osutil.SignalContext(context.Background())
	code := commands.ExecuteContext(ctx)
	cancel()
	os.Exit(code)
}
