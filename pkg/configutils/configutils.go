package configutils

import (
	"bytes"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// ImportKey lists files a config file pulls in before its own values.
var ImportKey = "imports"

// ResolveAndMergeFile reads filePath from fs into v, first merging every file
// named under ImportKey (recursively, children before parents).
func ResolveAndMergeFile(v *viper.Viper, fs afero.Fs, filePath string) error {
	if _, err := fs.Stat(filePath); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == "" {
		return errors.New("configuration file has no extension")
	}
	if !supportedExt(ext[1:]) {
		return fmt.Errorf("unsupported configuration file extension: %s", ext)
	}

	v.SetFs(fs)
	v.SetConfigType(ext[1:])
	v.SetConfigFile(filePath)
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	if err := resolveAllImports(v, fs); err != nil {
		return fmt.Errorf("could not resolve configuration imports: %w", err)
	}
	return nil
}

func supportedExt(ext string) bool {
	for _, e := range viper.SupportedExts {
		if ext == e {
			return true
		}
	}
	return false
}

// resolveImports walks the import graph depth first. visited is filled in
// pre-order to break cycles; configs is appended in post-order so imported
// files are merged before the files importing them.
func resolveImports(v *viper.Viper, fs afero.Fs, configs *[]string, visited map[string]struct{}) error {
	for _, i := range v.GetStringSlice(ImportKey) {
		if i == "" {
			continue
		}

		path := filepath.Clean(i)
		if !filepath.IsAbs(i) {
			path = filepath.Join(filepath.Dir(v.ConfigFileUsed()), i)
		}

		if _, err := fs.Stat(path); err != nil {
			return err
		}
		if _, ok := visited[path]; ok {
			continue
		}
		visited[path] = struct{}{}

		child := viper.New()
		child.SetFs(fs)
		child.SetConfigFile(path)
		if err := child.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading %s", path)
		}
		if err := resolveImports(child, fs, configs, visited); err != nil {
			return err
		}
		*configs = append(*configs, path)
	}
	return nil
}

func resolveAllImports(v *viper.Viper, fs afero.Fs) error {
	var configs []string
	if err := resolveImports(v, fs, &configs, map[string]struct{}{}); err != nil {
		return err
	}

	configs = append(configs, v.ConfigFileUsed())
	for _, path := range configs {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}
		if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
			return fmt.Errorf("merging config %s: %w", path, err)
		}
	}
	return nil
}

// BindEnvsRecursive binds an env variable for every mapstructure-tagged field
// of iface (a pointer to struct), descending into nested structs.
// Nil struct pointers are allocated on the way.
func BindEnvsRecursive(v *viper.Viper, iface interface{}, path string) error {
	val := reflect.ValueOf(iface).Elem()
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("mapstructure")
		if tag == "" || strings.HasPrefix(tag, ",") {
			continue
		}

		fullPath := tag
		if path != "" {
			fullPath = path + "." + tag
		}

		field := val.Field(i)
		if field.Kind() == reflect.Ptr {
			if field.IsNil() && field.Type().Elem().Kind() == reflect.Struct {
				field.Set(reflect.New(field.Type().Elem()))
			}
			field = field.Elem()
		}

		if field.Kind() == reflect.Struct {
			if err := BindEnvsRecursive(v, field.Addr().Interface(), fullPath); err != nil {
				return err
			}
			continue
		}

		if err := v.BindEnv(fullPath); err != nil {
			return fmt.Errorf("failed to bind environment variable: %w", err)
		}
	}
	return nil
}
