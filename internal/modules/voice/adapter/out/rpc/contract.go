package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "speech"
	serviceName       = "qrnav.voice.v1.Speech"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodSpeak       = "/" + serviceName + "/Speak"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "QRNAV_SPEECH_PLUGIN",
	MagicCookieValue: "qrnav",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Voices  []string `json:"voices"`
}

type SpeakRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

type SpeakResponse struct {
	DurationMS int64 `json:"duration_ms"`
}

type SpeechServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Speak(ctx context.Context, in *SpeakRequest) (*SpeakResponse, error)
}

type SpeechClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Speak(ctx context.Context, in *SpeakRequest) (*SpeakResponse, error)
}

type speechClient struct {
	conn *grpc.ClientConn
}

func NewSpeechClient(conn *grpc.ClientConn) SpeechClient {
	return &speechClient{conn: conn}
}

func (c *speechClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *speechClient) Speak(ctx context.Context, in *SpeakRequest) (*SpeakResponse, error) {
	out := &SpeakResponse{}
	if err := c.conn.Invoke(ctx, methodSpeak, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func unary[Req any](method string, call func(ctx context.Context, in *Req) (any, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type")
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterSpeechServer(server grpc.ServiceRegistrar, impl SpeechServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*SpeechServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: unary(methodGetMetadata, func(ctx context.Context, in *Empty) (any, error) {
					return impl.GetMetadata(ctx, in)
				}),
			},
			{
				MethodName: "Speak",
				Handler: unary(methodSpeak, func(ctx context.Context, in *SpeakRequest) (any, error) {
					return impl.Speak(ctx, in)
				}),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/speech-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl SpeechServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterSpeechServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewSpeechClient(conn), nil
}

func PluginMap(impl SpeechServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
