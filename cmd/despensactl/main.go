package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"despensa-backend/config"
	"despensa-backend/internal/models"
	"despensa-backend/pkg/database"

	"github.com/olekukonko/tablewriter"
)

// despensactl prints quick operational views straight from the database:
// customers with outstanding debt and products at or below their minimum.
func main() {
	var (
		userID   = flag.Uint("user", 1, "tenant account id")
		debtors  = flag.Bool("debtors", false, "list customers with outstanding debt")
		lowStock = flag.Bool("low-stock", false, "list products at or below their stock minimum")
		limit    = flag.Int("limit", 50, "maximum rows to print")
	)
	flag.Parse()

	if !*debtors && !*lowStock {
		flag.Usage()
		os.Exit(2)
	}

	config.LoadConfig()
	database.Connect()

	if *debtors {
		if err := printDebtors(*userID, *limit); err != nil {
			log.Fatalf("failed to list debtors: %v", err)
		}
	}
	if *lowStock {
		if err := printLowStock(*userID, *limit); err != nil {
			log.Fatalf("failed to list low stock: %v", err)
		}
	}
}

func printDebtors(userID uint, limit int) error {
	var customers []models.Customer
	err := database.DB.
		Where("user_id = ? AND debt > 0", userID).
		Order("debt desc").Limit(limit).
		Find(&customers).Error
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Phone", "Debt")
	for _, c := range customers {
		table.Append([]string{
			fmt.Sprintf("%d", c.ID),
			c.Name,
			c.Phone,
			c.Debt.StringFixed(2),
		})
	}
	return table.Render()
}

func printLowStock(userID uint, limit int) error {
	var products []models.Product
	err := database.DB.
		Where("user_id = ? AND is_active = ? AND stock <= stock_minimum", userID, true).
		Order("stock").Limit(limit).
		Find(&products).Error
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Code", "Name", "Stock", "Minimum")
	for _, p := range products {
		table.Append([]string{
			fmt.Sprintf("%d", p.ID),
			p.Code,
			p.Name,
			fmt.Sprintf("%d", p.Stock),
			fmt.Sprintf("%d", p.StockMinimum),
		})
	}
	return table.Render()
}
