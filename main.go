package main

import (
	"github.com/evanrichards/field-sorter-rs/internal/app"
)

func main() {
	app.Run()
}
