package main

import (
	"availability-service/core/logger"
	"availability-service/core/server"
)

// @title Availability Service API
// @version 1.0
// @description Slot calculation engine: availability rules, overrides, blocked time and computed bookable slots with Redis caching.

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
	}
}
