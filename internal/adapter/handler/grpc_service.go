package handler

import (
	"context"

	"google.golang.org/grpc"
)

const (
	grpcServiceName   = "shirtinventory.v1.ShirtInventory"
	methodGetShirt    = "/" + grpcServiceName + "/GetShirt"
	methodAdjustStock = "/" + grpcServiceName + "/AdjustStock"
	methodListShirts  = "/" + grpcServiceName + "/ListShirts"
)

type GetShirtRequest struct {
	ID string `json:"id"`
}

type GRPCAdjustStockRequest struct {
	ID        string `json:"id"`
	Amount    int    `json:"amount"`
	RequestID string `json:"request_id,omitempty"`
}

type ListShirtsRequest struct {
	View  string `json:"view,omitempty"`
	Color string `json:"color,omitempty"`
	Size  string `json:"size,omitempty"`
}

type ListShirtsResponse struct {
	Shirts []ShirtResponse `json:"shirts"`
}

type ShirtInventoryServer interface {
	GetShirt(ctx context.Context, req *GetShirtRequest) (*ShirtResponse, error)
	AdjustStock(ctx context.Context, req *GRPCAdjustStockRequest) (*ShirtResponse, error)
	ListShirts(ctx context.Context, req *ListShirtsRequest) (*ListShirtsResponse, error)
}

func RegisterShirtInventoryServer(s grpc.ServiceRegistrar, srv ShirtInventoryServer) {
	s.RegisterService(&shirtInventoryServiceDesc, srv)
}

var shirtInventoryServiceDesc = grpc.ServiceDesc{
	ServiceName: grpcServiceName,
	HandlerType: (*ShirtInventoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetShirt", Handler: getShirtHandler},
		{MethodName: "AdjustStock", Handler: adjustStockHandler},
		{MethodName: "ListShirts", Handler: listShirtsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "shirtinventory/v1/shirt_inventory",
}

func getShirtHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetShirtRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ShirtInventoryServer).GetShirt(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetShirt}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ShirtInventoryServer).GetShirt(ctx, req.(*GetShirtRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func adjustStockHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GRPCAdjustStockRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ShirtInventoryServer).AdjustStock(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodAdjustStock}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ShirtInventoryServer).AdjustStock(ctx, req.(*GRPCAdjustStockRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func listShirtsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListShirtsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ShirtInventoryServer).ListShirts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodListShirts}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ShirtInventoryServer).ListShirts(ctx, req.(*ListShirtsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// GRPCClient is a typed client for the shirt inventory gRPC service.
type GRPCClient struct {
	cc grpc.ClientConnInterface
}

func NewGRPCClient(cc grpc.ClientConnInterface) *GRPCClient {
	return &GRPCClient{cc: cc}
}

func (c *GRPCClient) GetShirt(ctx context.Context, id string) (*ShirtResponse, error) {
	out := new(ShirtResponse)
	if err := c.cc.Invoke(ctx, methodGetShirt, &GetShirtRequest{ID: id}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *GRPCClient) AdjustStock(ctx context.Context, req *GRPCAdjustStockRequest) (*ShirtResponse, error) {
	out := new(ShirtResponse)
	if err := c.cc.Invoke(ctx, methodAdjustStock, req, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *GRPCClient) ListShirts(ctx context.Context, req *ListShirtsRequest) (*ListShirtsResponse, error) {
	out := new(ListShirtsResponse)
	if err := c.cc.Invoke(ctx, methodListShirts, req, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}
