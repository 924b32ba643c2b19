// Command admin is the operator CLI over the chat transcript archive.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/config"
	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN is not set!")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	svc := storage.NewService(db, nil) // no redis needed for the CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <list|show|purge> [args]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		limit := config.DefaultArchiveListLimit
		if len(os.Args) > 2 {
			limit, err = strconv.Atoi(os.Args[2])
			if err != nil {
				fmt.Println("Invalid limit. Please provide an integer.")
				os.Exit(1)
			}
		}
		if err := listConversations(svc, limit); err != nil {
			log.Fatalf("Error listing conversations: %v", err)
		}
	case "show":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin show <conversation_id>")
			os.Exit(1)
		}
		id, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Println("Invalid conversation ID. Please provide an integer.")
			os.Exit(1)
		}
		if err := showConversation(svc, uint(id)); err != nil {
			log.Fatalf("Error showing conversation: %v", err)
		}
	case "purge":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin purge <older_than_days>")
			os.Exit(1)
		}
		days, err := strconv.Atoi(os.Args[2])
		if err != nil || days < 0 {
			fmt.Println("Invalid day count. Please provide a non-negative integer.")
			os.Exit(1)
		}
		cutoff := time.Now().AddDate(0, 0, -days)
		removed, err := svc.PurgeArchive(cutoff)
		if err != nil {
			log.Fatalf("Error purging archive: %v", err)
		}
		fmt.Printf("Purged %d archived conversations older than %d days.\n", removed, days)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func listConversations(s storage.Storage, limit int) error {
	conversations, err := s.ListArchivedConversations(limit)
	if err != nil {
		return err
	}
	for _, conv := range conversations {
		fmt.Printf("%d\t%s\t%s\t%s\n",
			conv.ID,
			conv.CreatedAt.Format(time.RFC3339),
			conv.VisitorID,
			conv.DisplayName,
		)
	}
	return nil
}

func showConversation(s storage.Storage, id uint) error {
	conv, err := s.GetArchivedConversation(id)
	if err != nil {
		return err
	}
	fmt.Printf("Conversation %d with %s (%s), archived %s\n\n",
		conv.ID, conv.DisplayName, conv.VisitorID, conv.CreatedAt.Format(time.RFC3339))
	for _, msg := range conv.Messages {
		fmt.Printf("[%s] %s: %s\n", msg.SentAt.Format("15:04:05"), msg.Sender, msg.Content)
	}
	return nil
}
