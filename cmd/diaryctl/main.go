package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/diary/internal/diaryctl"
)

func main() {
	cli := diaryctl.New(os.Stdin, os.Stdout)
	if err := cli.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
