package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"notes-backend/internal/client"
	"notes-backend/internal/config"
	"notes-backend/internal/logger"
	"notes-backend/internal/model"
)

// Флаги командной строки
var (
	flagAddr    string
	flagToken   string
	flagTitle   string
	flagContent string
	flagTags    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "notes-client",
		Short: "Клиент IPC-границы notes backend",
		Long:  "CLI-клиент для notes backend: операции над заметками и подписка на события через клиентское хранилище состояния.",
	}

	rootCmd.PersistentFlags().StringVar(&flagAddr, "addr", "http://localhost:8080", "адрес сервера")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", os.Getenv("AUTH_TOKEN"), "токен авторизации (Bearer)")

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Создать заметку",
		RunE:  runCreate,
	}
	createCmd.Flags().StringVar(&flagTitle, "title", "", "заголовок заметки")
	createCmd.Flags().StringVar(&flagContent, "content", "", "содержание заметки")
	createCmd.Flags().StringVar(&flagTags, "tags", "", "теги через запятую")

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Обновить заметку",
		Args:  cobra.ExactArgs(1),
		RunE:  runUpdate,
	}
	updateCmd.Flags().StringVar(&flagTitle, "title", "", "новый заголовок")
	updateCmd.Flags().StringVar(&flagContent, "content", "", "новое содержание")
	updateCmd.Flags().StringVar(&flagTags, "tags", "", "новые теги через запятую")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Показать все заметки",
			RunE:  runList,
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Показать заметку по ID",
			Args:  cobra.ExactArgs(1),
			RunE:  runGet,
		},
		createCmd,
		updateCmd,
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Удалить заметку",
			Args:  cobra.ExactArgs(1),
			RunE:  runDelete,
		},
		&cobra.Command{
			Use:   "watch",
			Short: "Подписаться на события изменения заметок",
			RunE:  runWatch,
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newStore собирает клиентское хранилище состояния поверх клиента границы
func newStore() *client.Store {
	log := logger.New(&config.ConfigLogger{Level: "warn", Pretty: true})
	api := client.NewAPI(flagAddr, flagToken)
	return client.NewStore(api, log)
}

// splitTags разбирает список тегов из флага --tags
func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func runList(cmd *cobra.Command, args []string) error {
	store := newStore()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	if err := store.LoadNotes(ctx); err != nil {
		return fmt.Errorf("%s", store.LastError())
	}

	notes := store.Notes()
	if len(notes) == 0 {
		fmt.Println("Заметок нет")
		return nil
	}

	for _, note := range notes {
		printNote(note)
	}
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	store := newStore()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	note, err := store.GetNote(ctx, args[0])
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}

	printNote(note)
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	store := newStore()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	note, err := store.CreateNote(ctx, flagTitle, flagContent, splitTags(flagTags))
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}

	fmt.Println("Создана заметка:")
	printNote(note)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	store := newStore()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	var tags []string
	if cmd.Flags().Changed("tags") {
		tags = splitTags(flagTags)
		if tags == nil {
			tags = []string{}
		}
	}

	note, err := store.UpdateNote(ctx, args[0], flagTitle, flagContent, tags)
	if err != nil {
		return fmt.Errorf("%s", store.LastError())
	}

	fmt.Println("Обновлена заметка:")
	printNote(note)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	store := newStore()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	if err := store.DeleteNote(ctx, args[0]); err != nil {
		return fmt.Errorf("%s", store.LastError())
	}

	fmt.Println("Заметка удалена")
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	api := client.NewAPI(flagAddr, flagToken)

	// Завершаем подписку по Ctrl+C
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	events, err := api.SubscribeEvents(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Подписка на события (Ctrl+C для выхода)...")
	for event := range events {
		if event.Note != nil {
			fmt.Printf("[%s] %s %s (%s)\n", time.Now().Format(time.TimeOnly), event.Type, event.Note.Title, event.Note.ID)
		} else {
			fmt.Printf("[%s] %s\n", time.Now().Format(time.TimeOnly), event.Type)
		}
	}

	return nil
}

// printNote выводит заметку в терминал
func printNote(note model.Note) {
	fmt.Printf("── %s\n", note.ID)
	fmt.Printf("   Заголовок: %s\n", note.Title)
	if len(note.Tags) > 0 {
		fmt.Printf("   Теги: %s\n", strings.Join(note.Tags, ", "))
	}
	if note.Content != "" {
		fmt.Printf("   %s\n", note.Content)
	}
	if !note.UpdatedAt.IsZero() {
		fmt.Printf("   Обновлена: %s\n", note.UpdatedAt.Format(time.RFC3339))
	}
}
