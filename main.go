// @title CodeX 后端 API
// @version 1.0.0
// @description 代码分析与历史记录服务。

// @host localhost:5000
// @BasePath /api

package main

import (
	"codex_backend/cmd"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
