package grpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestAuthInterceptor(t *testing.T) {
	validToken := "test-token-123"

	tests := []struct {
		name           string
		token          string
		ctx            context.Context
		method         string
		handlerCalled  bool
		expectedCode   codes.Code
		expectedErrMsg string
	}{
		{
			name:          "Valid Token",
			token:         validToken,
			ctx:           metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", validToken)),
			method:        "/grpc.reflection.v1.ServerReflection/ServerReflectionInfo",
			handlerCalled: true,
			expectedCode:  codes.OK,
		},
		{
			name:          "Bearer Token",
			token:         validToken,
			ctx:           metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+validToken)),
			method:        "/cashil.Admin/Anything",
			handlerCalled: true,
			expectedCode:  codes.OK,
		},
		{
			name:           "Invalid Token",
			token:          validToken,
			ctx:            metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "wrong-token")),
			method:         "/cashil.Admin/Anything",
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "invalid token",
		},
		{
			name:           "Missing Token",
			token:          validToken,
			ctx:            context.Background(),
			method:         "/cashil.Admin/Anything",
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "missing metadata",
		},
		{
			name:           "Missing Authorization Header",
			token:          validToken,
			ctx:            metadata.NewIncomingContext(context.Background(), metadata.Pairs("other-header", "value")),
			method:         "/cashil.Admin/Anything",
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "missing authorization header",
		},
		{
			name:          "Health Service Is Exempt",
			token:         validToken,
			ctx:           context.Background(),
			method:        "/grpc.health.v1.Health/Check",
			handlerCalled: true,
			expectedCode:  codes.OK,
		},
		{
			name:          "Empty Configured Token Disables Auth",
			token:         "",
			ctx:           context.Background(),
			method:        "/cashil.Admin/Anything",
			handlerCalled: true,
			expectedCode:  codes.OK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interceptor := AuthInterceptor(tt.token, HealthServicePrefix)

			handlerCalled := false
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				handlerCalled = true
				return "success", nil
			}

			info := &grpc.UnaryServerInfo{FullMethod: tt.method}

			resp, err := interceptor(tt.ctx, "test-request", info, handler)

			assert.Equal(t, tt.handlerCalled, handlerCalled, "handler called status mismatch")

			if tt.expectedCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "success", resp)
			} else {
				assert.Error(t, err)
				st, ok := status.FromError(err)
				assert.True(t, ok, "error should be a gRPC status")
				assert.Equal(t, tt.expectedCode, st.Code())
				assert.Contains(t, st.Message(), tt.expectedErrMsg)
			}
		})
	}
}

type fakeServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *fakeServerStream) Context() context.Context {
	return s.ctx
}

func TestStreamAuthInterceptor(t *testing.T) {
	interceptor := StreamAuthInterceptor("secret", HealthServicePrefix)

	tests := []struct {
		name          string
		ctx           context.Context
		method        string
		handlerCalled bool
	}{
		{
			name:          "valid token",
			ctx:           metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "secret")),
			method:        "/grpc.reflection.v1.ServerReflection/ServerReflectionInfo",
			handlerCalled: true,
		},
		{
			name:          "missing token",
			ctx:           context.Background(),
			method:        "/grpc.reflection.v1.ServerReflection/ServerReflectionInfo",
			handlerCalled: false,
		},
		{
			name:          "health watch is exempt",
			ctx:           context.Background(),
			method:        "/grpc.health.v1.Health/Watch",
			handlerCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := func(srv interface{}, stream grpc.ServerStream) error {
				handlerCalled = true
				return nil
			}

			err := interceptor(nil, &fakeServerStream{ctx: tt.ctx}, &grpc.StreamServerInfo{FullMethod: tt.method}, handler)

			assert.Equal(t, tt.handlerCalled, handlerCalled)
			if tt.handlerCalled {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, codes.Unauthenticated, status.Code(err))
			}
		})
	}
}
