package main

import (
	"github.com/m-mizutani/redload/pkg/handler"
	"github.com/m-mizutani/redload/pkg/loader"
)

func main() {
	handler.StartLambda(loader.Handler)
}
