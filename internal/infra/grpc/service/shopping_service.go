// Package service exposes the shopping coordinator to gRPC terminals. The
// messages are protobuf well-known types, so clients need no generated
// stubs: ids travel as StringValue and records as Struct.
package service

import (
	"context"
	"errors"
	"math"

	"github.com/DioGolang/GoPOS/internal/application/usecase/shopping"
	"github.com/DioGolang/GoPOS/internal/domain/entity"
	"github.com/DioGolang/GoPOS/pkg/logger"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "gopos.v1.Shopping"

type ShoppingServer interface {
	GetAllProducts(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	SaveProductAndStock(context.Context, *structpb.Struct) (*structpb.Struct, error)
	OpenNewOrder(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	CloseOrder(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	DeleteOrder(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	GetOrderItems(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	BuyProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var ShoppingServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ShoppingServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GetAllProducts", newEmpty, ShoppingServer.GetAllProducts),
		unary("SaveProductAndStock", newStruct, ShoppingServer.SaveProductAndStock),
		unary("OpenNewOrder", newEmpty, ShoppingServer.OpenNewOrder),
		unary("CloseOrder", newString, ShoppingServer.CloseOrder),
		unary("DeleteOrder", newString, ShoppingServer.DeleteOrder),
		unary("GetOrderItems", newString, ShoppingServer.GetOrderItems),
		unary("BuyProduct", newStruct, ShoppingServer.BuyProduct),
	},
	Metadata: "gopos/v1/shopping",
}

func newEmpty() *emptypb.Empty           { return &emptypb.Empty{} }
func newStruct() *structpb.Struct        { return &structpb.Struct{} }
func newString() *wrapperspb.StringValue { return &wrapperspb.StringValue{} }

// unary builds the method handler that generated code would contain.
func unary[Req, Resp proto.Message](
	name string,
	newReq func() Req,
	call func(ShoppingServer, context.Context, Req) (Resp, error),
) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			req := newReq()
			if err := dec(req); err != nil {
				return nil, err
			}
			invoke := func(ctx context.Context, in interface{}) (interface{}, error) {
				return call(srv.(ShoppingServer), ctx, in.(Req))
			}
			if interceptor == nil {
				return invoke(ctx, req)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			return interceptor(ctx, req, info, invoke)
		},
	}
}

// NewServer returns a gRPC server traced by otelgrpc with the shopping
// service registered.
func NewServer(c shopping.Coordinator, log logger.Logger) *grpc.Server {
	srv := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	srv.RegisterService(&ShoppingServiceDesc, NewShoppingService(c, log))
	return srv
}

type ShoppingService struct {
	Coordinator shopping.Coordinator
	Logger      logger.Logger
}

func NewShoppingService(c shopping.Coordinator, log logger.Logger) *ShoppingService {
	return &ShoppingService{Coordinator: c, Logger: log}
}

func (s *ShoppingService) GetAllProducts(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	products, err := s.Coordinator.GetAllProducts(ctx)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	out := make([]interface{}, 0, len(products))
	for _, p := range products {
		out = append(out, productFields(p))
	}
	return structpb.NewList(out)
}

func (s *ShoppingService) SaveProductAndStock(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	price, err := decimal.NewFromString(fields["price"].GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "price must be a decimal string")
	}
	quantity, err := wholeNumber(fields["quantity"])
	if err != nil {
		return nil, err
	}

	created, err := s.Coordinator.SaveProductAndStock(ctx, fields["name"].GetStringValue(), price, quantity)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	out := productFields(created.Product)
	out["stock"] = created.Stock.Quantity()
	return structpb.NewStruct(out)
}

func (s *ShoppingService) OpenNewOrder(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	order, err := s.Coordinator.OpenNewOrder(ctx)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return structpb.NewStruct(orderFields(order))
}

func (s *ShoppingService) CloseOrder(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	order, err := s.Coordinator.CloseOrder(ctx, req.GetValue())
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return structpb.NewStruct(orderFields(order))
}

func (s *ShoppingService) DeleteOrder(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if err := s.Coordinator.DeleteOrder(ctx, req.GetValue()); err != nil {
		return nil, s.fail(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *ShoppingService) GetOrderItems(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	items, err := s.Coordinator.GetOrderItems(ctx, req.GetValue())
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	out := make([]interface{}, 0, len(items))
	for _, i := range items {
		out = append(out, itemFields(i))
	}
	return structpb.NewList(out)
}

func (s *ShoppingService) BuyProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	quantity, err := wholeNumber(fields["quantity"])
	if err != nil {
		return nil, err
	}
	item, err := s.Coordinator.BuyProduct(ctx, fields["order_id"].GetStringValue(), fields["product_id"].GetStringValue(), quantity)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return structpb.NewStruct(itemFields(item))
}

func (s *ShoppingService) fail(ctx context.Context, err error) error {
	code := CodeFor(err)
	if code == codes.Internal {
		s.Logger.Error(ctx, "gRPC request failed", logger.WithError(err))
	}
	return status.Error(code, err.Error())
}

// CodeFor mirrors the HTTP status mapping of the REST controller.
func CodeFor(err error) codes.Code {
	switch {
	case errors.Is(err, entity.ErrValidation), errors.Is(err, entity.ErrIDIsRequired):
		return codes.InvalidArgument
	case errors.Is(err, entity.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, entity.ErrInsufficientStock),
		errors.Is(err, entity.ErrStaleData),
		errors.Is(err, entity.ErrOrderClosed),
		errors.Is(err, entity.ErrOrderHasItems),
		errors.Is(err, entity.ErrInvalidStateTransition):
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

// Struct numbers are float64; quantities must be whole and fit an int.
func wholeNumber(v *structpb.Value) (int, error) {
	n := v.GetNumberValue()
	if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
		return 0, status.Error(codes.InvalidArgument, "quantity must be a whole number")
	}
	return int(n), nil
}

func productFields(p *entity.Product) map[string]interface{} {
	return map[string]interface{}{
		"id":    p.ID(),
		"name":  p.Name(),
		"price": p.Price().StringFixed(2),
	}
}

func orderFields(o *entity.Order) map[string]interface{} {
	return map[string]interface{}{
		"id":     o.ID(),
		"status": o.StatusName(),
	}
}

func itemFields(i *entity.OrderItem) map[string]interface{} {
	return map[string]interface{}{
		"id":         i.ID(),
		"product_id": i.ProductID(),
		"order_id":   i.OrderID(),
		"unit_price": i.UnitPrice().StringFixed(2),
		"quantity":   i.Quantity(),
		"subtotal":   i.Subtotal().StringFixed(2),
		"version":    i.Version(),
	}
}
