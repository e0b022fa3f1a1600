package tackle_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/Azhovan/tackle"
	"github.com/Azhovan/tackle/node"
	"github.com/Azhovan/tackle/sourceenv"
	"github.com/Azhovan/tackle/sourcefile"
)

// Example demonstrates binding a parsed document to a struct.
func Example() {
	type Config struct {
		Host    string        `conf:"default:localhost"`
		Port    int           `conf:"required,min:1"`
		Timeout time.Duration `conf:"default:30s"`
	}

	root, err := sourcefile.Decode("yaml", []byte("port: 8080\ntimeout: 1m\n"))
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := tackle.Parse[Config](nil, root)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s:%d %s\n", cfg.Host, cfg.Port, cfg.Timeout)
	// Output: localhost:8080 1m0s
}

// ExampleExtract demonstrates turning a value back into a tree.
func ExampleExtract() {
	type Server struct {
		Host string `comment:"Interface to bind"`
		Port int
		Tags []string
	}

	root, err := tackle.Extract(nil, Server{Host: "0.0.0.0", Port: 80, Tags: []string{"edge"}})
	if err != nil {
		log.Fatal(err)
	}

	if err := tackle.Dump(os.Stdout, root, tackle.WithComments()); err != nil {
		log.Fatal(err)
	}
	// Output:
	// host: "0.0.0.0"  # Interface to bind
	// port: 80
	// tags[0]: "edge"
}

// staticSource serves a fixed tree.
type staticSource struct {
	root *node.Node
}

func (s staticSource) Load(ctx context.Context) (*node.Node, error) {
	return s.root.Clone(), nil
}

func (s staticSource) Name() string {
	return "static"
}

func mustDecode(format, doc string) *node.Node {
	root, err := sourcefile.Decode(format, []byte(doc))
	if err != nil {
		log.Fatal(err)
	}
	return root
}

// ExampleLoader_Load demonstrates layering sources. Later sources win.
func ExampleLoader_Load() {
	type Config struct {
		Environment string `conf:"default:dev,oneof:dev,prod"`
		Database    struct {
			Host string `conf:"default:localhost"`
			Port int    `conf:"default:5432"`
		}
	}

	base := staticSource{root: mustDecode("json", `{"environment": "prod", "database": {"host": "db.internal"}}`)}
	override := staticSource{root: mustDecode("json", `{"database": {"port": 6432}}`)}

	cfg, err := tackle.NewLoader[Config]().
		WithSource(base).
		WithSource(override).
		Load(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(cfg.Environment, cfg.Database.Host, cfg.Database.Port)
	// Output: prod db.internal 6432
}

// ExampleLoader_WithValidator demonstrates a cross-field check.
func ExampleLoader_WithValidator() {
	type Config struct {
		Mode string `conf:"default:dev"`
		Host string `conf:"default:localhost"`
	}

	src := staticSource{root: mustDecode("json", `{"mode": "prod"}`)}

	_, err := tackle.NewLoader[Config]().
		WithSource(src).
		WithValidator(tackle.ValidatorFunc[Config](func(ctx context.Context, cfg *Config) error {
			if cfg.Mode == "prod" && cfg.Host == "localhost" {
				return &tackle.ValidationError{FieldErrors: []tackle.FieldError{{
					FieldPath: "host",
					Code:      "prod_localhost",
					Message:   "production cannot bind localhost",
				}}}
			}
			return nil
		})).
		Load(context.Background())

	fmt.Println(err)
	// Output:
	// config validation failed: 1 error
	//   - host: prod_localhost (production cannot bind localhost)
}

// ExampleValidationError demonstrates inspecting tag validation failures.
func ExampleValidationError() {
	type Config struct {
		Port int    `conf:"min:1,max:65535"`
		Mode string `conf:"oneof:dev,prod"`
	}

	src := staticSource{root: mustDecode("json", `{"port": 70000, "mode": "qa"}`)}
	_, err := tackle.NewLoader[Config]().WithSource(src).Load(context.Background())

	var valErr *tackle.ValidationError
	if errors.As(err, &valErr) {
		for _, fe := range valErr.FieldErrors {
			fmt.Printf("%s [%s]: %s\n", fe.FieldPath, fe.Code, fe.Message)
		}
	}
	// Output:
	// port [max]: value 70000 exceeds maximum 65535
	// mode [oneof]: value "qa" must be one of: dev, prod
}

// ExampleLoader_Strict demonstrates unknown key handling.
func ExampleLoader_Strict() {
	type Config struct {
		Port int `conf:"default:80"`
	}

	src := staticSource{root: mustDecode("json", `{"prot": 8080}`)}

	_, err := tackle.NewLoader[Config]().WithSource(src).Load(context.Background())
	var uk *tackle.UnknownKeyError
	if errors.As(err, &uk) {
		fmt.Println("unknown key:", uk.Path)
	}

	cfg, err := tackle.NewLoader[Config]().WithSource(src).Strict(false).Load(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("port:", cfg.Port)
	// Output:
	// unknown key: prot
	// port: 80
}

// ExampleOptional demonstrates telling "not set" apart from the zero value.
func ExampleOptional() {
	type Config struct {
		MaxConns tackle.Optional[int]
		Retries  tackle.Optional[int]
	}

	cfg, err := tackle.Parse[Config](nil, mustDecode("json", `{"max-conns": 50}`))
	if err != nil {
		log.Fatal(err)
	}

	n, ok := cfg.MaxConns.Get()
	fmt.Println("max-conns:", n, ok)
	fmt.Println("retries:", cfg.Retries.OrDefault(3))
	// Output:
	// max-conns: 50 true
	// retries: 3
}

// ExampleOrderedMap demonstrates a map that keeps document order.
func ExampleOrderedMap() {
	routes, err := tackle.Parse[tackle.OrderedMap[string]](nil, mustDecode("yaml", "/api: backend\n/static: cdn\n/: web\n"))
	if err != nil {
		log.Fatal(err)
	}

	for _, prefix := range routes.Keys() {
		target, _ := routes.Get(prefix)
		fmt.Println(prefix, "->", target)
	}
	// Output:
	// /api -> backend
	// /static -> cdn
	// / -> web
}

// ExampleDumpEffective demonstrates printing a config with secrets hidden.
func ExampleDumpEffective() {
	type Config struct {
		Host     string
		Password string `conf:"secret"`
		Timeout  time.Duration
	}

	cfg := &Config{Host: "db.internal", Password: "hunter2", Timeout: 5 * time.Second}
	if err := tackle.DumpEffective(os.Stdout, cfg); err != nil {
		log.Fatal(err)
	}
	// Output:
	// host: "db.internal"
	// password: "***redacted***"
	// timeout: "5s"
}

// ExampleDumpEffective_asJSON demonstrates JSON output.
func ExampleDumpEffective_asJSON() {
	type Config struct {
		Host  string
		Token string `conf:"secret"`
	}

	cfg := &Config{Host: "api.internal", Token: "abc"}
	if err := tackle.DumpEffective(os.Stdout, cfg, tackle.AsJSON()); err != nil {
		log.Fatal(err)
	}
	// Output:
	// {
	//   "host": "api.internal",
	//   "token": "***redacted***"
	// }
}

// urlSerializer reads and writes *url.URL as a string.
type urlSerializer struct{}

func (urlSerializer) Serialize(_ *tackle.EncodeContext, v reflect.Value) (*node.Node, error) {
	return node.String(v.Interface().(*url.URL).String()), nil
}

func (urlSerializer) Deserialize(_ *tackle.DecodeContext, n *node.Node, _ tackle.Type) (reflect.Value, error) {
	u, err := url.Parse(n.Text())
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(u), nil
}

// ExampleRegistry_Register demonstrates a caller serializer taking
// precedence over the built-in ones.
func ExampleRegistry_Register() {
	type Config struct {
		Endpoint *url.URL
	}

	reg := tackle.NewRegistry()
	if err := reg.Register(tackle.ExactlyType[*url.URL](), urlSerializer{}); err != nil {
		log.Fatal(err)
	}

	cfg, err := tackle.Parse[Config](reg, mustDecode("yaml", "endpoint: https://api.example.com/v1\n"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(cfg.Endpoint.Host, cfg.Endpoint.Path)
	// Output: api.example.com /v1
}

// Example_sources demonstrates a file layered under environment variables.
func Example_sources() {
	dir, err := os.MkdirTemp("", "tackle-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "config.yaml")
	doc := "server:\n  host: example.com\n  port: 8080\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		log.Fatal(err)
	}

	os.Setenv("TACKLEEXAMPLE_SERVER__PORT", "9090")
	os.Setenv("TACKLEEXAMPLE_SERVER__READ_TIMEOUT", "3s")
	defer os.Unsetenv("TACKLEEXAMPLE_SERVER__PORT")
	defer os.Unsetenv("TACKLEEXAMPLE_SERVER__READ_TIMEOUT")

	type Config struct {
		Server struct {
			Host        string        `conf:"required"`
			Port        int           `conf:"min:1"`
			ReadTimeout time.Duration `conf:"default:15s"`
		}
	}

	cfg, err := tackle.NewLoader[Config]().
		WithSource(sourcefile.New(path, sourcefile.Options{Required: true})).
		WithSource(sourceenv.New(sourceenv.Options{Prefix: "TACKLEEXAMPLE_"})).
		Load(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(cfg.Server.Host, cfg.Server.Port, cfg.Server.ReadTimeout)
	// Output: example.com 9090 3s
}

// ExampleLoader_Save demonstrates writing a config back to its file.
// Keys already in the file that the config does not know are kept.
func ExampleLoader_Save() {
	dir, err := os.MkdirTemp("", "tackle-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("owner: ops\nport: 1\n"), 0o644); err != nil {
		log.Fatal(err)
	}

	type Config struct {
		Host string
		Port int
	}

	file := sourcefile.New(path, sourcefile.Options{})
	cfg := &Config{Host: "localhost", Port: 8080}
	if err := tackle.NewLoader[Config]().Save(context.Background(), cfg, file); err != nil {
		log.Fatal(err)
	}

	root, err := file.Load(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	var buf bytes.Buffer
	if err := tackle.Dump(&buf, root); err != nil {
		log.Fatal(err)
	}
	fmt.Print(buf.String())
	// Output:
	// owner: "ops"
	// port: 8080
	// host: "localhost"
}

// ExampleLoader_Watch demonstrates receiving configuration snapshots.
// Without a watchable source only the initial snapshot is sent.
func ExampleLoader_Watch() {
	type Config struct {
		Port int `conf:"default:80"`
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, _, err := tackle.NewLoader[Config]().
		WithSource(staticSource{root: mustDecode("json", `{"port": 8080}`)}).
		Watch(ctx)
	if err != nil {
		log.Fatal(err)
	}

	for snap := range snapshots {
		fmt.Printf("version %d from %s: port %d\n", snap.Version, snap.Source, snap.Config.Port)
	}
	// Output: version 1 from initial: port 8080
}
