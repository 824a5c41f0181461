package main

import (
	"exam_portal/config"
	"exam_portal/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
