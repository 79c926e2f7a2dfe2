package queries

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type addressRow struct {
	OrderID        uuid.UUID
	SaveAs         string
	Pincode        string
	City           string
	State          string
	HouseNumber    string
	StreetLocality string
	Mobile         string
}

type itemRow struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ProductID    uuid.UUID
	ProductName  string
	ProductPrice decimal.Decimal
	Qty          int
	Subtotal     decimal.Decimal
	CreatedAt    time.Time
}

// readOrders runs an orders query whose select list is orderColumns and
// attaches address snapshots and items in two further queries.
func readOrders(ctx context.Context, db *gorm.DB, sql string, values ...any) ([]OrderView, error) {
	views, ids, err := scanOrders(ctx, db, sql, values...)
	if err != nil || len(views) == 0 {
		return views, err
	}

	var addresses []addressRow
	if err = db.WithContext(ctx).Raw(`
		SELECT
			order_id,
			save_as,
			pincode,
			city,
			state,
			house_number,
			street_locality,
			mobile
		FROM order_addresses
		WHERE order_id IN ?
	`, ids).Scan(&addresses).Error; err != nil {
		return nil, err
	}

	var items []itemRow
	if err = db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			product_id,
			product_name,
			product_price,
			qty,
			subtotal,
			created_at
		FROM order_items
		WHERE order_id IN ?
		ORDER BY created_at ASC, position ASC
	`, ids).Scan(&items).Error; err != nil {
		return nil, err
	}

	index := make(map[uuid.UUID]int, len(views))
	for i, id := range ids {
		index[id] = i
	}

	for _, a := range addresses {
		if i, ok := index[a.OrderID]; ok {
			views[i].Address = AddressView{
				SaveAs:         a.SaveAs,
				Pincode:        a.Pincode,
				City:           a.City,
				State:          a.State,
				HouseNumber:    a.HouseNumber,
				StreetLocality: a.StreetLocality,
				Mobile:         a.Mobile,
			}
		}
	}

	for _, row := range items {
		i, ok := index[row.OrderID]
		if !ok {
			continue
		}
		item, convErr := row.view()
		if convErr != nil {
			return nil, convErr
		}
		views[i].Items = append(views[i].Items, item)
	}

	return views, nil
}

const orderColumns = `
	id,
	order_code,
	user_id,
	total_qty,
	final_amount,
	order_status,
	created_at,
	updated_at`

func scanOrders(ctx context.Context, db *gorm.DB, sql string, values ...any) ([]OrderView, []uuid.UUID, error) {
	rows, err := db.WithContext(ctx).Raw(sql, values...).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	views := make([]OrderView, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var (
			view        OrderView
			id, userID  uuid.UUID
			finalAmount decimal.Decimal
		)

		if err = rows.Scan(
			&id,
			&view.OrderCode,
			&userID,
			&view.TotalQty,
			&finalAmount,
			&view.OrderStatus,
			&view.CreatedAt,
			&view.UpdatedAt,
		); err != nil {
			return nil, nil, err
		}

		if view.ID, err = kernel.UUIDFromGoogle(id); err != nil {
			return nil, nil, err
		}
		if view.UserID, err = kernel.UUIDFromGoogle(userID); err != nil {
			return nil, nil, err
		}
		if view.FinalAmount, err = kernel.NewMoney(finalAmount); err != nil {
			return nil, nil, err
		}
		view.Items = make([]ItemView, 0)

		views = append(views, view)
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	return views, ids, nil
}

func (r itemRow) view() (ItemView, error) {
	id, err := kernel.UUIDFromGoogle(r.ID)
	if err != nil {
		return ItemView{}, err
	}
	productID, err := kernel.UUIDFromGoogle(r.ProductID)
	if err != nil {
		return ItemView{}, err
	}
	price, err := kernel.NewMoney(r.ProductPrice)
	if err != nil {
		return ItemView{}, err
	}
	subtotal, err := kernel.NewMoney(r.Subtotal)
	if err != nil {
		return ItemView{}, err
	}

	return ItemView{
		ID:           id,
		ProductID:    productID,
		ProductName:  r.ProductName,
		ProductPrice: price,
		Qty:          r.Qty,
		Subtotal:     subtotal,
		CreatedAt:    r.CreatedAt,
	}, nil
}
