// Command lodestone identifies installed Minecraft content against
// remote catalogs and checks identified items for updates.
package main
