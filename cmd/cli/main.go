package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	appdb "github.com/yourorg/pointtally/internal/db"
	"github.com/yourorg/pointtally/internal/store"
)

func main() {
	_ = godotenv.Load()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("==== PointTally CLI ====")
		fmt.Println("1) Health check API")
		fmt.Println("2) Create account")
		fmt.Println("3) Reset account points")
		fmt.Println("4) Exit")
		fmt.Print("Select option: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)
		switch choice {
		case "1":
			doHealthCheck()
		case "2":
			doCreateAccount(reader)
		case "3":
			doResetPoints(reader)
		case "4":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Invalid option")
		}
		fmt.Println()
	}
}

func doHealthCheck() {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://127.0.0.1:8080"
	}
	url := strings.TrimRight(base, "/") + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		fmt.Println("Health: ERROR:", err)
		return
	}
	defer resp.Body.Close()
	fmt.Println("Health status:", resp.Status)
}

func openStore() *store.Store {
	db, err := appdb.Connect()
	if err != nil {
		log.Println("DB connect error:", err)
		return nil
	}
	if err := appdb.EnsureSchema(db); err != nil {
		log.Println("Ensure schema error:", err)
		return nil
	}
	return store.New(db)
}

func doCreateAccount(reader *bufio.Reader) {
	st := openStore()
	if st == nil {
		return
	}

	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	fmt.Print("Password: ")
	password, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		fmt.Println("Username and password required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	acc, err := st.CreateAccount(ctx, username, "", password)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			fmt.Printf("Account %q already exists\n", username)
			return
		}
		fmt.Println("Create error:", err)
		return
	}
	fmt.Printf("Created account %q (id=%d)\n", acc.Username, acc.ID)
}

func doResetPoints(reader *bufio.Reader) {
	st := openStore()
	if st == nil {
		return
	}

	fmt.Print("Account id: ")
	raw, _ := reader.ReadString('\n')
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		fmt.Println("Invalid account id")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := st.ReplacePoints(ctx, id, 0); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Println("No such account")
			return
		}
		fmt.Println("Reset error:", err)
		return
	}
	fmt.Printf("Points reset to 0 for account %d\n", id)
}
