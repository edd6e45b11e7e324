package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"hotel-chain/bootstrap"
	"hotel-chain/models"
	"hotel-chain/views"
)

var (
	listViewer string
	listNights int

	createFields models.RoomFields

	reserveNights int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List rooms",
	Long: `List every live room created with the reservation tag.

Example:
  hotelctl list
  hotelctl list --viewer <address> --nights 3`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
			rooms, err := app.Gateway.ListRooms(ctx)
			if err != nil {
				return err
			}
			viewer := listViewer
			if viewer == "" {
				viewer, _ = resolveSender(senderAddr, app.Signer)
			}
			board := views.NewBoard(rooms, viewer, time.Now(), listNights)
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), board)
			}
			return printBoard(cmd.OutOrStdout(), board)
		})
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a room contract",
	Long: `Deploy a new reservation contract.

Example:
  hotelctl create --name "Sea view" --image https://... --price 5000000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
			sender, err := resolveSender(senderAddr, app.Signer)
			if err != nil {
				return err
			}
			id, err := app.Gateway.CreateRoom(ctx, sender, createFields)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Room added: %d\n", id)
			return nil
		})
	},
}

var reserveCmd = &cobra.Command{
	Use:   "reserve ROOM_ID",
	Short: "Reserve a room",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRoomID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
			sender, err := resolveSender(senderAddr, app.Signer)
			if err != nil {
				return err
			}
			room, err := app.Gateway.GetRoom(ctx, id)
			if err != nil {
				return err
			}
			if err := app.Gateway.Reserve(ctx, sender, room, reserveNights); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reserved room %d for %d night(s)\n", id, reserveNights)
			return nil
		})
	},
}

var endCmd = &cobra.Command{
	Use:   "end ROOM_ID",
	Short: "End your reservation and reclaim the holding fee",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRoomID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
			sender, err := resolveSender(senderAddr, app.Signer)
			if err != nil {
				return err
			}
			room, err := app.Gateway.GetRoom(ctx, id)
			if err != nil {
				return err
			}
			if err := app.Gateway.EndReservation(ctx, sender, room); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reservation on room %d ended\n", id)
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete ROOM_ID",
	Short: "Delete a room you created",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRoomID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
			sender, err := resolveSender(senderAddr, app.Signer)
			if err != nil {
				return err
			}
			deleted, err := app.Gateway.DeleteRoom(ctx, sender, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Room %d deleted\n", deleted)
			return nil
		})
	},
}

func init() {
	listCmd.Flags().StringVar(&listViewer, "viewer", "", "address to compute controls for")
	listCmd.Flags().IntVar(&listNights, "nights", views.DefaultNights, "nights used for the quoted total")

	createCmd.Flags().StringVar(&createFields.Name, "name", "", "room name")
	createCmd.Flags().StringVar(&createFields.ImageURL, "image", "", "image URL")
	createCmd.Flags().StringVar(&createFields.Description, "description", "", "description")
	createCmd.Flags().Uint64Var(&createFields.PricePerNight, "price", 0, "price per night in micro-units")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("price")

	reserveCmd.Flags().IntVarP(&reserveNights, "nights", "n", views.DefaultNights, "number of nights")
}

func printBoard(w io.Writer, board views.Board) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tPRICE/NIGHT\tRESERVED TO\tENDS\tACTION")
	for _, card := range board.Cards {
		action := string(card.Control)
		if card.Control == views.ControlReserve && card.Enabled {
			action = fmt.Sprintf("reserve %d night(s) for %s", card.Nights, card.TotalPriceText)
		}
		if card.CanDelete {
			action += ", delete"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			card.Room.ID, card.Room.Name, card.Status, card.PriceText,
			dash(card.ReservedToShort), dash(card.EndsText), action)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d room(s). %s\n", len(board.Cards), board.Notice)
	return err
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
