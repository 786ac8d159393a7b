package cartfile

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/bondx/storefront/internal/domain/cart"
	"github.com/bondx/storefront/internal/domain/product"
)

// encodeState serializes a snapshot. The format round-trips exactly:
// encodeState(decodeState(x)) == x for any snapshot this codec produced.
func encodeState(state cart.State) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("lines")
	e.ArrStart()
	for _, line := range state.Lines {
		encodeLine(&e, line)
	}
	e.ArrEnd()
	e.FieldStart("isOpen")
	e.Bool(state.IsOpen)
	e.ObjEnd()
	return e.Bytes()
}

func encodeLine(e *jx.Encoder, line cart.Line) {
	e.ObjStart()
	e.FieldStart("product")
	encodeProduct(e, line.Product)
	e.FieldStart("quantity")
	e.Int(line.Quantity)
	e.ObjEnd()
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("description")
	e.Str(p.Description)
	e.FieldStart("price")
	e.Int64(p.Price)
	e.FieldStart("imageUrl")
	e.Str(p.ImageURL)
	e.FieldStart("category")
	e.Str(p.Category)
	e.FieldStart("features")
	e.ArrStart()
	for _, f := range p.Features {
		e.Str(f)
	}
	e.ArrEnd()
	e.ObjEnd()
}

// decodeState parses a snapshot and enforces the cart invariants: one line
// per product id, every quantity >= 1. Anything that violates them counts as
// a malformed snapshot.
func decodeState(data []byte) (cart.State, error) {
	var state cart.State

	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "lines":
			return d.Arr(func(d *jx.Decoder) error {
				line, err := decodeLine(d)
				if err != nil {
					return err
				}
				state.Lines = append(state.Lines, line)
				return nil
			})
		case "isOpen":
			v, err := d.Bool()
			if err != nil {
				return err
			}
			state.IsOpen = v
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return cart.State{}, err
	}

	seen := make(map[int64]struct{}, len(state.Lines))
	for _, line := range state.Lines {
		if line.Quantity < 1 {
			return cart.State{}, errors.Errorf("product %d: quantity %d out of range", line.Product.ID, line.Quantity)
		}
		if _, dup := seen[line.Product.ID]; dup {
			return cart.State{}, errors.Errorf("duplicate line for product %d", line.Product.ID)
		}
		seen[line.Product.ID] = struct{}{}
	}
	return state, nil
}

func decodeLine(d *jx.Decoder) (cart.Line, error) {
	var line cart.Line
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "product":
			p, err := decodeProduct(d)
			if err != nil {
				return err
			}
			line.Product = p
			return nil
		case "quantity":
			q, err := d.Int()
			if err != nil {
				return err
			}
			line.Quantity = q
			return nil
		default:
			return d.Skip()
		}
	})
	return line, err
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = d.Int64()
		case "name":
			p.Name, err = d.Str()
		case "description":
			p.Description, err = d.Str()
		case "price":
			p.Price, err = d.Int64()
		case "imageUrl":
			p.ImageURL, err = d.Str()
		case "category":
			p.Category, err = d.Str()
		case "features":
			err = d.Arr(func(d *jx.Decoder) error {
				f, err := d.Str()
				if err != nil {
					return err
				}
				p.Features = append(p.Features, f)
				return nil
			})
		default:
			err = d.Skip()
		}
		return err
	})
	return p, err
}
