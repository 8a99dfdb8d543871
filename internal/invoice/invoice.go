// Package invoice renders a PDF summary of a completed order.
package invoice

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/model"
	"storefront-backend/internal/order"
)

type OrderFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error)
}

type Renderer struct {
	orders OrderFinder
	dir    string
}

func NewRenderer(orders OrderFinder, dir string) *Renderer {
	return &Renderer{orders: orders, dir: dir}
}

func Filename(orderID primitive.ObjectID) string {
	return "invoice-" + orderID.Hex() + ".pdf"
}

// Render loads the order, verifies it belongs to requester, and streams the
// PDF to w while also writing it to disk for later re-serving. Nothing is
// written to w unless the authorization check passes.
func (r *Renderer) Render(ctx context.Context, orderID, requester primitive.ObjectID, w io.Writer) error {
	o, err := r.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.User.UserID != requester {
		return model.ErrUnauthorized
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("invoice dir: %w", err)
	}
	f, err := os.Create(filepath.Join(r.dir, Filename(orderID)))
	if err != nil {
		return fmt.Errorf("invoice file: %w", err)
	}
	defer f.Close()

	return Write(io.MultiWriter(f, w), o)
}

// Write produces the PDF bytes for an order: an underlined title, one line
// per item as "{title} - {quantity} x ${price}", and the total. The creation
// date is pinned to the order's timestamp so rendering the same immutable
// order twice yields identical bytes.
func Write(w io.Writer, o *model.Order) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(o.CreatedAt)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "BU", 26)
	pdf.Cell(0, 12, "Invoice")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 14)
	pdf.Cell(0, 8, "-----------------------")
	pdf.Ln(10)

	for _, item := range o.Items {
		line := fmt.Sprintf("%s - %d x $%s", item.Product.Title, item.Quantity, formatPrice(item.Product.Price))
		pdf.Cell(0, 8, line)
		pdf.Ln(8)
	}

	pdf.Cell(0, 8, "---")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 10, "Total Price: $"+order.Total(o).String())

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render invoice: %w", err)
	}
	return nil
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
