package main

import (
	"log"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"

	"github.com/centimehq/centime/model"
)

// seedCommands installs the built-in institution templates and, with --demo,
// a few fake holders to poke at in development.
func seedCommands(b *centimeInstance) *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "seed built-in institution templates",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()

			if err := b.centime.SeedDefaultInstitutions(ctx); err != nil {
				log.Fatalf("Error seeding institutions: %v", err)
			}
			log.Println(" [*] Institution templates seeded")

			if !demo {
				return
			}

			for i := 0; i < 3; i++ {
				holder, err := b.centime.CreateHolder(ctx, model.Holder{
					Email:        gofakeit.Email(),
					CurrencyCode: "INR",
				})
				if err != nil {
					log.Printf("Error seeding demo holder: %v", err)
					continue
				}
				log.Printf(" [*] Demo holder created: %s (%s)", holder.HolderID, holder.Email)
			}
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "also create demo holders")
	return cmd
}
