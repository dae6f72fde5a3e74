package headerscope

import (
	"context"
	"net/http"
	"strings"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/proto"
)

// AnnotateForwardedHeaders returns a grpc-gateway metadata annotator that
// lifts the named inbound HTTP headers into the gRPC metadata of the
// translated request, so that an edge caller's headers survive the hop into
// the service. Names are matched case-insensitively; missing headers are
// skipped.
func AnnotateForwardedHeaders(names ...string) func(context.Context, *http.Request) metadata.MD {
	return func(ctx context.Context, req *http.Request) metadata.MD {
		md := metadata.MD{}
		for _, name := range names {
			values := req.Header.Values(name)
			if len(values) == 0 {
				continue
			}
			md[strings.ToLower(name)] = values
		}
		return md
	}
}

// ScopeFromHTTPRequest returns a context carrying the named inbound headers as
// a header scope, so downstream client calls issued while handling the request
// propagate them. With no names, every inbound header is forwarded.
func ScopeFromHTTPRequest(ctx context.Context, req *http.Request, names ...string) context.Context {
	if len(names) == 0 {
		return WithHeaders(ctx, HeaderSetFromHTTP(req.Header))
	}
	var hs HeaderSet
	for _, name := range names {
		values := req.Header.Values(name)
		if len(values) == 0 {
			continue
		}
		hs = hs.Set(name, values[0])
		for _, v := range values[1:] {
			hs = hs.Add(name, v)
		}
	}
	return WithHeaders(ctx, hs)
}

// ResponseHeaderModifier returns a grpc-gateway forward-response option that
// stamps the set onto every HTTP response. Each name in the set replaces any
// values already written for it.
func ResponseHeaderModifier(set HeaderSet) func(context.Context, http.ResponseWriter, proto.Message) error {
	return func(ctx context.Context, w http.ResponseWriter, msg proto.Message) error {
		for _, name := range set.Names() {
			values := set.Values(name)
			w.Header().Set(name, values[0])
			for _, v := range values[1:] {
				w.Header().Add(name, v)
			}
		}
		return nil
	}
}

// NewGatewayMux creates a grpc-gateway ServeMux that forwards the named
// inbound headers to the service and stamps the response set onto outgoing
// HTTP responses.
func NewGatewayMux(forward []string, respond HeaderSet, opts ...runtime.ServeMuxOption) *runtime.ServeMux {
	allOpts := []runtime.ServeMuxOption{
		runtime.WithMetadata(AnnotateForwardedHeaders(forward...)),
		runtime.WithForwardResponseOption(ResponseHeaderModifier(respond)),
	}
	allOpts = append(allOpts, opts...)
	return runtime.NewServeMux(allOpts...)
}
