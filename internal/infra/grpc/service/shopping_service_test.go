package service

import (
	"context"
	"net"
	"testing"

	"github.com/DioGolang/GoPOS/internal/application/usecase/shopping"
	"github.com/DioGolang/GoPOS/internal/domain/entity"
	"github.com/DioGolang/GoPOS/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// stubCoordinator implements only what the tests call; anything else
// panics on the nil embedded interface.
type stubCoordinator struct {
	shopping.Coordinator
	err error

	boughtOrder, boughtProduct string
	boughtQty                  int
}

func (s *stubCoordinator) OpenNewOrder(context.Context) (*entity.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return entity.RestoreOrder("o-1", entity.StatusOpen)
}

func (s *stubCoordinator) CloseOrder(_ context.Context, orderID string) (*entity.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return entity.RestoreOrder(orderID, entity.StatusClosed)
}

func (s *stubCoordinator) BuyProduct(_ context.Context, orderID, productID string, quantity int) (*entity.OrderItem, error) {
	s.boughtOrder, s.boughtProduct, s.boughtQty = orderID, productID, quantity
	if s.err != nil {
		return nil, s.err
	}
	return entity.RestoreOrderItem("i-1", productID, orderID, decimal.RequireFromString("2.50"), quantity, 1), nil
}

func dial(t *testing.T, c shopping.Coordinator) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewServer(c, logger.NewNop())
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func method(name string) string { return "/" + ServiceName + "/" + name }

func TestShoppingService_OrderLifecycle(t *testing.T) {
	conn := dial(t, &stubCoordinator{})
	ctx := context.Background()

	opened := &structpb.Struct{}
	require.NoError(t, conn.Invoke(ctx, method("OpenNewOrder"), &emptypb.Empty{}, opened))
	assert.Equal(t, "o-1", opened.Fields["id"].GetStringValue())
	assert.Equal(t, entity.StatusOpen, opened.Fields["status"].GetStringValue())

	closed := &structpb.Struct{}
	require.NoError(t, conn.Invoke(ctx, method("CloseOrder"), wrapperspb.String("o-9"), closed))
	assert.Equal(t, "o-9", closed.Fields["id"].GetStringValue())
	assert.Equal(t, entity.StatusClosed, closed.Fields["status"].GetStringValue())
}

func TestShoppingService_BuyProduct(t *testing.T) {
	stub := &stubCoordinator{}
	conn := dial(t, stub)

	req, err := structpb.NewStruct(map[string]interface{}{"order_id": "o-1", "product_id": "p-1", "quantity": 3})
	require.NoError(t, err)
	item := &structpb.Struct{}
	require.NoError(t, conn.Invoke(context.Background(), method("BuyProduct"), req, item))

	assert.Equal(t, "o-1", stub.boughtOrder)
	assert.Equal(t, "p-1", stub.boughtProduct)
	assert.Equal(t, 3, stub.boughtQty)
	assert.Equal(t, "7.50", item.Fields["subtotal"].GetStringValue())
	assert.Equal(t, float64(3), item.Fields["quantity"].GetNumberValue())
}

func TestShoppingService_RejectsFractionalQuantity(t *testing.T) {
	stub := &stubCoordinator{}
	conn := dial(t, stub)

	req, err := structpb.NewStruct(map[string]interface{}{"order_id": "o-1", "product_id": "p-1", "quantity": 1.5})
	require.NoError(t, err)
	err = conn.Invoke(context.Background(), method("BuyProduct"), req, &structpb.Struct{})

	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Empty(t, stub.boughtOrder)
}

func TestShoppingService_MapsErrorsToCodes(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{entity.ErrQuantityMustBePos, codes.InvalidArgument},
		{entity.NewNotFoundError(entity.OrderEntity, "o-1"), codes.NotFound},
		{&entity.InsufficientStockError{ProductName: "Tea", Requested: 5, Available: 1}, codes.FailedPrecondition},
		{&entity.StaleDataError{ItemID: "i-1"}, codes.FailedPrecondition},
		{assert.AnError, codes.Internal},
	}
	for _, tt := range tests {
		conn := dial(t, &stubCoordinator{err: tt.err})
		err := conn.Invoke(context.Background(), method("OpenNewOrder"), &emptypb.Empty{}, &structpb.Struct{})
		assert.Equal(t, tt.want, status.Code(err), tt.err.Error())
	}
}
