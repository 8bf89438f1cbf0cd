package document

import "fmt"

// Keyspace names every Redis key used by the document backend.
type Keyspace struct {
	Prefix string
}

func NewKeyspace(prefix string) Keyspace {
	if prefix == "" {
		prefix = "pos"
	}
	return Keyspace{Prefix: prefix}
}

func (k Keyspace) Product(id string) string { return fmt.Sprintf("%s:product:%s", k.Prefix, id) }
func (k Keyspace) Products() string         { return k.Prefix + ":products" }
func (k Keyspace) Stock(id string) string   { return fmt.Sprintf("%s:stock:%s", k.Prefix, id) }
func (k Keyspace) Order(id string) string   { return fmt.Sprintf("%s:order:%s", k.Prefix, id) }
func (k Keyspace) Item(id string) string    { return fmt.Sprintf("%s:orderitem:%s", k.Prefix, id) }

func (k Keyspace) StockByProduct(productID string) string {
	return fmt.Sprintf("%s:stock:byproduct:%s", k.Prefix, productID)
}

func (k Keyspace) OrderItems(orderID string) string {
	return fmt.Sprintf("%s:order:%s:items", k.Prefix, orderID)
}

func (k Keyspace) ItemByProductAndOrder(productID, orderID string) string {
	return fmt.Sprintf("%s:orderitem:byproductorder:%s:%s", k.Prefix, productID, orderID)
}
