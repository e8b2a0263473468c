package taxrules

import (
	"fmt"
	"strings"
)

// Registry resuelve el Provider de un país por código ISO. Se construye una
// sola vez en el arranque; agregar un país es agregar una implementación de
// Provider, nunca un branch por país dentro del calculador.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry construye el registro con los providers soportados.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[strings.ToUpper(p.CountryCode())] = p
	}
	return r
}

// Resolve retorna el provider del país o error si no está soportado.
func (r *Registry) Resolve(countryCode string) (Provider, error) {
	p, ok := r.providers[strings.ToUpper(countryCode)]
	if !ok {
		return nil, fmt.Errorf("taxrules: país no soportado: %s", countryCode)
	}
	return p, nil
}

// Supported lista los códigos de país registrados.
func (r *Registry) Supported() []string {
	codes := make([]string, 0, len(r.providers))
	for code := range r.providers {
		codes = append(codes, code)
	}
	return codes
}
