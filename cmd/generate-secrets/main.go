package main

import (
	"fmt"
	"log"

	"github.com/drivent/booking-backend/internal/utils"
)

func main() {
	secret, err := utils.GenerateJWTSecret()
	if err != nil {
		log.Fatalf("Failed to generate secret: %v", err)
	}

	fmt.Println("Add this to your .env file:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", secret)
	fmt.Println()
	fmt.Println("Keep it out of version control. Rotating it signs every user out.")
}
